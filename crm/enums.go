package crm

import "strings"

// The extraction model is asked for closed enum sets but its output is never
// trusted; unknown values map to the documented defaults.

func ParseQualification(s string) Qualification {
	switch Qualification(strings.TrimSpace(strings.ToLower(s))) {
	case QualificationHot:
		return QualificationHot
	case QualificationWarm:
		return QualificationWarm
	case QualificationCold:
		return QualificationCold
	default:
		return QualificationUnqualified
	}
}

func ParseBuyerProfile(s string) BuyerProfile {
	switch BuyerProfile(strings.TrimSpace(strings.ToLower(s))) {
	case BuyerInvestor:
		return BuyerInvestor
	case BuyerFirstHome:
		return BuyerFirstHome
	case BuyerUpgrade:
		return BuyerUpgrade
	case BuyerUndecided:
		return BuyerUndecided
	case BuyerOwner:
		return BuyerOwner
	default:
		return BuyerCurious
	}
}

func ParseUrgency(s string) UrgencyLevel {
	switch UrgencyLevel(strings.TrimSpace(strings.ToLower(s))) {
	case UrgencyMedium:
		return UrgencyMedium
	case UrgencyHigh:
		return UrgencyHigh
	case UrgencyUrgent:
		return UrgencyUrgent
	default:
		return UrgencyLow
	}
}

func ParseTransactionInterest(s string) TransactionInterest {
	switch TransactionInterest(strings.TrimSpace(strings.ToLower(s))) {
	case TransactionRental:
		return TransactionRental
	case TransactionBoth:
		return TransactionBoth
	default:
		return TransactionSale
	}
}
