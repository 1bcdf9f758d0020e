package crm

import "testing"

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"(61) 99999-0000", "61999990000"},
		{"61999990000", "61999990000"},
		{"+55 61 9 9999-0000", "5561999990000"},
		{"abc", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePhoneEquivalentFormsMatch(t *testing.T) {
	t.Parallel()

	a := NormalizePhone("(61) 99999-0000")
	b := NormalizePhone("61 99999 0000")
	if a != b {
		t.Fatalf("equivalent phones normalized differently: %q vs %q", a, b)
	}
}

func TestPropertyURL(t *testing.T) {
	t.Parallel()

	withSlug := &Property{ID: 42, Slug: "casa-lago-sul"}
	if got := withSlug.URL(); got != "/imovel/casa-lago-sul" {
		t.Fatalf("unexpected url: %s", got)
	}

	withoutSlug := &Property{ID: 42}
	if got := withoutSlug.URL(); got != "/imovel/42" {
		t.Fatalf("unexpected fallback url: %s", got)
	}
}

func TestParseEnumsFallBackToDefaults(t *testing.T) {
	t.Parallel()

	if got := ParseQualification("muito quente"); got != QualificationUnqualified {
		t.Fatalf("unexpected qualification: %s", got)
	}
	if got := ParseQualification(" QUENTE "); got != QualificationHot {
		t.Fatalf("unexpected qualification: %s", got)
	}
	if got := ParseBuyerProfile("alienigena"); got != BuyerCurious {
		t.Fatalf("unexpected buyer profile: %s", got)
	}
	if got := ParseUrgency(""); got != UrgencyLow {
		t.Fatalf("unexpected urgency: %s", got)
	}
	if got := ParseTransactionInterest("compra"); got != TransactionSale {
		t.Fatalf("unexpected transaction interest: %s", got)
	}
	if got := ParseTransactionInterest("locacao"); got != TransactionRental {
		t.Fatalf("unexpected transaction interest: %s", got)
	}
}
