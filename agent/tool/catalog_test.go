package tool

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	crmx "github.com/imobiflow/imobiflow/crm"
)

type fakeCRM struct {
	leads      map[string]*crmx.Lead
	properties map[int64]*crmx.Property
	listResult []crmx.Property
	listErr    error

	lastFilter   crmx.PropertyFilter
	interactions []crmx.Interaction
	updates      []crmx.LeadPatch
	updateErrs   []error
}

func (f *fakeCRM) LeadByPhone(ctx context.Context, phone string) (*crmx.Lead, error) {
	lead, ok := f.leads[crmx.NormalizePhone(phone)]
	if !ok {
		return nil, crmx.ErrLeadNotFound
	}
	clone := *lead
	return &clone, nil
}

func (f *fakeCRM) CreateLead(ctx context.Context, lead *crmx.Lead) error {
	return errors.New("not implemented")
}

func (f *fakeCRM) UpdateLead(ctx context.Context, id int64, expectedVersion int64, patch crmx.LeadPatch) error {
	f.updates = append(f.updates, patch)
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		return err
	}
	return nil
}

func (f *fakeCRM) CreateInteraction(ctx context.Context, interaction *crmx.Interaction) error {
	f.interactions = append(f.interactions, *interaction)
	return nil
}

func (f *fakeCRM) PropertyByID(ctx context.Context, id int64) (*crmx.Property, error) {
	prop, ok := f.properties[id]
	if !ok {
		return nil, crmx.ErrPropertyNotFound
	}
	clone := *prop
	return &clone, nil
}

func (f *fakeCRM) ListProperties(ctx context.Context, filter crmx.PropertyFilter) ([]crmx.Property, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]crmx.Property(nil), f.listResult...), nil
}

type publishRecord struct {
	destination string
	payload     any
}

type fakeNotifier struct {
	err       error
	published []publishRecord
}

func (f *fakeNotifier) Publish(ctx context.Context, destination string, payload any) error {
	f.published = append(f.published, publishRecord{destination: destination, payload: payload})
	return f.err
}

func newTestRegistry(t *testing.T, crm *fakeCRM, notifier *fakeNotifier, webhookURL string) *Registry {
	t.Helper()

	deps := Deps{CRM: crm, BrokerWebhookURL: webhookURL}
	if notifier != nil {
		deps.Notifier = notifier
	}
	registry, err := Default(deps)
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	return registry
}

func TestExecuteUnknownTool(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t, &fakeCRM{}, nil, "")
	out := registry.Execute(context.Background(), "timeTravel", "{}")
	if out != "Erro: Ferramenta desconhecida: timeTravel" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestExecuteMalformedArguments(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t, &fakeCRM{}, nil, "")
	out := registry.Execute(context.Background(), ToolSearchProperties, "{not json")
	if !strings.Contains(out, "argumentos inválidos") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCatalogListsEveryTool(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t, &fakeCRM{}, nil, "")
	infos := registry.Infos()
	if len(infos) != 4 {
		t.Fatalf("expected 4 tools, got %d", len(infos))
	}
	names := map[string]bool{}
	for _, info := range infos {
		names[info.Name] = true
	}
	for _, want := range []string{ToolSearchProperties, ToolScheduleVisit, ToolSimulateFinancing, ToolEstimatePropertyValue} {
		if !names[want] {
			t.Fatalf("catalog missing tool %s", want)
		}
	}
}

func TestSearchPropertiesTruncatesToThree(t *testing.T) {
	t.Parallel()

	crm := &fakeCRM{
		listResult: []crmx.Property{
			{ID: 1, Title: "Apto 1", SalePriceCents: 50_000_000},
			{ID: 2, Title: "Apto 2", SalePriceCents: 55_000_000},
			{ID: 3, Title: "Apto 3", SalePriceCents: 60_000_000},
			{ID: 4, Title: "Apto 4", SalePriceCents: 65_000_000},
			{ID: 5, Title: "Apto 5", SalePriceCents: 70_000_000},
		},
	}
	registry := newTestRegistry(t, crm, nil, "")

	out := registry.Execute(context.Background(), ToolSearchProperties,
		`{"transactionType":"venda","maxPrice":800000}`)

	var payload searchPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v (raw %q)", err, out)
	}
	if payload.Count != 5 {
		t.Fatalf("expected count 5, got %d", payload.Count)
	}
	if len(payload.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(payload.Results))
	}
	if payload.Results[0].Price != "R$ 500.000,00" {
		t.Fatalf("unexpected price rendering: %q", payload.Results[0].Price)
	}

	if crm.lastFilter.MaxPriceCents != 80_000_000 {
		t.Fatalf("max price not converted to cents: %d", crm.lastFilter.MaxPriceCents)
	}
	if crm.lastFilter.Status != crmx.PropertyStatusAvailable {
		t.Fatalf("status filter not applied: %q", crm.lastFilter.Status)
	}
}

func TestSearchPropertiesNoResults(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t, &fakeCRM{}, nil, "")
	out := registry.Execute(context.Background(), ToolSearchProperties, `{"transactionType":"locacao"}`)
	if out != noResultsMessage {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestSearchPropertiesStoreFailure(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t, &fakeCRM{listErr: errors.New("db down")}, nil, "")
	out := registry.Execute(context.Background(), ToolSearchProperties, `{"transactionType":"venda"}`)
	if out != searchFailedReply {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestScheduleVisitUnknownLead(t *testing.T) {
	t.Parallel()

	crm := &fakeCRM{
		properties: map[int64]*crmx.Property{7: {ID: 7, Title: "Casa"}},
	}
	registry := newTestRegistry(t, crm, nil, "")

	out := registry.Execute(context.Background(), ToolScheduleVisit,
		`{"propertyId":7,"date":"2026-09-01 10:00","leadPhone":"61999990000"}`)
	if out != leadNotFoundReply {
		t.Fatalf("unexpected output: %q", out)
	}
	if len(crm.interactions) != 0 {
		t.Fatalf("no interaction must be written for unknown lead, got %d", len(crm.interactions))
	}
}

func TestScheduleVisitUnknownProperty(t *testing.T) {
	t.Parallel()

	crm := &fakeCRM{
		leads: map[string]*crmx.Lead{
			"61999990000": {ID: 1, Phone: "61999990000", Version: 1},
		},
	}
	registry := newTestRegistry(t, crm, nil, "")

	out := registry.Execute(context.Background(), ToolScheduleVisit,
		`{"propertyId":99,"date":"2026-09-01 10:00","leadPhone":"61999990000"}`)
	if !strings.Contains(out, "Imóvel com ID 99 não encontrado") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestScheduleVisitSuccess(t *testing.T) {
	t.Parallel()

	crm := &fakeCRM{
		leads: map[string]*crmx.Lead{
			"61999990000": {ID: 1, Phone: "61999990000", Version: 3},
		},
		properties: map[int64]*crmx.Property{
			7: {ID: 7, Title: "Casa no Lago Sul", ReferenceCode: "CS-007"},
		},
	}
	notifier := &fakeNotifier{}
	registry := newTestRegistry(t, crm, notifier, "https://broker.example.com/hook")

	out := registry.Execute(context.Background(), ToolScheduleVisit,
		`{"propertyId":7,"date":"2026-09-01 10:00","leadPhone":"(61) 99999-0000"}`)
	if !strings.Contains(out, "Visita agendada com sucesso") {
		t.Fatalf("unexpected output: %q", out)
	}

	if len(crm.interactions) != 1 {
		t.Fatalf("expected one interaction, got %d", len(crm.interactions))
	}
	if crm.interactions[0].Type != string(crmx.StageVisitScheduled) {
		t.Fatalf("unexpected interaction type: %s", crm.interactions[0].Type)
	}

	if len(crm.updates) != 1 {
		t.Fatalf("expected one lead update, got %d", len(crm.updates))
	}
	if crm.updates[0].Stage == nil || *crm.updates[0].Stage != crmx.StageVisitScheduled {
		t.Fatalf("stage not advanced to visita_agendada: %+v", crm.updates[0])
	}

	if len(notifier.published) != 1 {
		t.Fatalf("expected one broker notification, got %d", len(notifier.published))
	}
	if notifier.published[0].destination != "https://broker.example.com/hook" {
		t.Fatalf("unexpected destination: %s", notifier.published[0].destination)
	}
}

func TestScheduleVisitRetriesConcurrentStageUpdate(t *testing.T) {
	t.Parallel()

	crm := &fakeCRM{
		leads: map[string]*crmx.Lead{
			"61999990000": {ID: 1, Phone: "61999990000", Version: 3},
		},
		properties: map[int64]*crmx.Property{7: {ID: 7, Title: "Casa"}},
		updateErrs: []error{crmx.ErrConcurrentUpdate},
	}
	registry := newTestRegistry(t, crm, nil, "")

	out := registry.Execute(context.Background(), ToolScheduleVisit,
		`{"propertyId":7,"date":"2026-09-01 10:00","leadPhone":"61999990000"}`)
	if !strings.Contains(out, "Visita agendada com sucesso") {
		t.Fatalf("unexpected output: %q", out)
	}
	if len(crm.updates) != 2 {
		t.Fatalf("expected retry after concurrent update, got %d updates", len(crm.updates))
	}
}

func TestScheduleVisitNotifierFailureDoesNotBlock(t *testing.T) {
	t.Parallel()

	crm := &fakeCRM{
		leads: map[string]*crmx.Lead{
			"61999990000": {ID: 1, Phone: "61999990000", Version: 1},
		},
		properties: map[int64]*crmx.Property{7: {ID: 7, Title: "Casa"}},
	}
	notifier := &fakeNotifier{err: errors.New("qstash down")}
	registry := newTestRegistry(t, crm, notifier, "https://broker.example.com/hook")

	out := registry.Execute(context.Background(), ToolScheduleVisit,
		`{"propertyId":7,"date":"2026-09-01 10:00","leadPhone":"61999990000"}`)
	if !strings.Contains(out, "Visita agendada com sucesso") {
		t.Fatalf("broker failure must not block scheduling: %q", out)
	}
}

func TestSimulateFinancingValidation(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t, &fakeCRM{}, nil, "")

	out := registry.Execute(context.Background(), ToolSimulateFinancing,
		`{"propertyValue":0,"downPayment":0,"termMonths":360}`)
	if !strings.Contains(out, "valor do imóvel") {
		t.Fatalf("unexpected output: %q", out)
	}

	out = registry.Execute(context.Background(), ToolSimulateFinancing,
		`{"propertyValue":500000,"downPayment":100000,"termMonths":0}`)
	if !strings.Contains(out, "prazo") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestSimulateFinancingSuccess(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t, &fakeCRM{}, nil, "")
	out := registry.Execute(context.Background(), ToolSimulateFinancing,
		`{"propertyValue":500000,"downPayment":100000,"termMonths":360}`)

	var payload struct {
		Results []bankSimulationResult `json:"results"`
		Message string                 `json:"message"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v (raw %q)", err, out)
	}
	if len(payload.Results) != 10 {
		t.Fatalf("expected 10 simulations (5 banks x 2 systems), got %d", len(payload.Results))
	}
	for _, r := range payload.Results {
		if r.LoanAmount != "R$ 400.000,00" {
			t.Fatalf("unexpected loan amount: %q", r.LoanAmount)
		}
		if !strings.HasPrefix(r.FirstPayment, "R$ ") {
			t.Fatalf("unformatted first payment: %q", r.FirstPayment)
		}
	}
}

func TestSimulateFinancingDownPaymentCovers(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t, &fakeCRM{}, nil, "")
	out := registry.Execute(context.Background(), ToolSimulateFinancing,
		`{"propertyValue":500000,"downPayment":500000,"termMonths":360}`)
	if !strings.Contains(out, "entrada cobre o valor") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestEstimatePropertyValueValidation(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t, &fakeCRM{}, nil, "")
	out := registry.Execute(context.Background(), ToolEstimatePropertyValue,
		`{"propertyType":"apartamento","neighborhood":"Asa Sul","totalArea":0}`)
	if !strings.Contains(out, "área total") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestEstimatePropertyValueSuccess(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t, &fakeCRM{}, nil, "")
	out := registry.Execute(context.Background(), ToolEstimatePropertyValue,
		`{"propertyType":"apartamento","neighborhood":"Asa Sul","totalArea":100,"bedrooms":3,"bathrooms":2,"condition":"excelente"}`)

	var payload struct {
		EstimatedMin string `json:"estimatedMin"`
		EstimatedMax string `json:"estimatedMax"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v (raw %q)", err, out)
	}
	if !strings.HasPrefix(payload.EstimatedMin, "R$ ") || !strings.HasPrefix(payload.EstimatedMax, "R$ ") {
		t.Fatalf("unformatted range: %q / %q", payload.EstimatedMin, payload.EstimatedMax)
	}
}
