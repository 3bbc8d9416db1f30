package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/splitbill/internal/auth"
	"github.com/mmynk/splitbill/internal/bill"
	"github.com/mmynk/splitbill/internal/calculator"
	"github.com/mmynk/splitbill/internal/metrics"
	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/scan"
	"github.com/mmynk/splitbill/internal/storage"
	"github.com/mmynk/splitbill/pkg/api"
	"github.com/mmynk/splitbill/pkg/api/apiconnect"
)

const defaultScanTimeout = 30 * time.Second

var _ apiconnect.BillServiceHandler = (*BillService)(nil)

// BillService implements the Connect BillService.
//
// Every call loads the bill, applies one change through a bill.Store, saves
// it, and returns the bill with a freshly computed summary. Calls on the same
// bill are serialized.
type BillService struct {
	store       storage.Store
	tokens      *auth.JWTManager
	scanner     scan.Provider
	scanTimeout time.Duration
	metrics     *metrics.Metrics
	locks       *billLocks
	validate    *validator.Validate
}

// Option configures a BillService.
type Option func(*BillService)

// WithScanner enables ScanReceipt. Each scan is bounded by timeout.
func WithScanner(p scan.Provider, timeout time.Duration) Option {
	return func(s *BillService) {
		s.scanner = p
		if timeout > 0 {
			s.scanTimeout = timeout
		}
	}
}

// WithMetrics records service metrics in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *BillService) {
		s.metrics = m
	}
}

// NewBillService creates a BillService with the given storage backend and
// token issuer.
func NewBillService(store storage.Store, tokens *auth.JWTManager, opts ...Option) *BillService {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	s := &BillService{
		store:       store,
		tokens:      tokens,
		scanTimeout: defaultScanTimeout,
		locks:       newBillLocks(),
		validate:    validate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBill starts an empty bill and issues its edit token.
func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	msg := req.Msg
	if err := s.validate.Struct(msg); err != nil {
		return nil, toConnectError(err)
	}

	st := bill.New()
	if msg.Config != nil {
		if err := st.SetConfig(fromConfigView(*msg.Config)); err != nil {
			return nil, toConnectError(err)
		}
	}

	b := &models.Bill{
		Title:    strings.TrimSpace(msg.Title),
		Currency: strings.ToUpper(msg.Currency),
	}
	if b.Currency == "" {
		b.Currency = scan.DefaultCurrency
	}
	st.ToModel(b)

	if err := s.store.CreateBill(ctx, b); err != nil {
		return nil, toConnectError(fmt.Errorf("failed to save bill: %w", err))
	}

	token, err := s.tokens.Generate(b.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.metrics.IncrementBillsCreated()
	slog.Info("Bill created", "bill_id", b.ID, "title", b.Title)

	return connect.NewResponse(&api.CreateBillResponse{
		BillID: b.ID,
		Token:  token,
		Bill:   s.view(b, st),
	}), nil
}

// GetBill returns the bill and its current summary.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.BillView], error) {
	return s.respond(s.read(ctx, req.Msg, req.Msg.BillID))
}

// AddPerson adds a person to the bill.
func (s *BillService) AddPerson(ctx context.Context, req *connect.Request[api.AddPersonRequest]) (*connect.Response[api.BillView], error) {
	return s.respond(s.mutate(ctx, req.Msg, req.Msg.BillID, "add_person", func(st *bill.Store, _ *models.Bill) error {
		_, err := st.AddPerson(req.Msg.Name)
		return err
	}))
}

// RemovePerson removes a person and all of their assignments.
func (s *BillService) RemovePerson(ctx context.Context, req *connect.Request[api.RemovePersonRequest]) (*connect.Response[api.BillView], error) {
	return s.respond(s.mutate(ctx, req.Msg, req.Msg.BillID, "remove_person", func(st *bill.Store, _ *models.Bill) error {
		st.RemovePerson(req.Msg.PersonID)
		return nil
	}))
}

// AddItem adds an unassigned item.
func (s *BillService) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.BillView], error) {
	msg := req.Msg
	return s.respond(s.mutate(ctx, msg, msg.BillID, "add_item", func(st *bill.Store, _ *models.Bill) error {
		_, err := st.AddItem(msg.Name, msg.UnitPrice, msg.Quantity)
		return err
	}))
}

// UpdateItem patches an item's name, price or quantity.
func (s *BillService) UpdateItem(ctx context.Context, req *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.BillView], error) {
	msg := req.Msg
	return s.respond(s.mutate(ctx, msg, msg.BillID, "update_item", func(st *bill.Store, _ *models.Bill) error {
		_, err := st.UpdateItem(msg.ItemID, bill.ItemPatch{
			Name:      msg.Name,
			UnitPrice: msg.UnitPrice,
			Quantity:  msg.Quantity,
		})
		return err
	}))
}

// RemoveItem removes an item.
func (s *BillService) RemoveItem(ctx context.Context, req *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.BillView], error) {
	return s.respond(s.mutate(ctx, req.Msg, req.Msg.BillID, "remove_item", func(st *bill.Store, _ *models.Bill) error {
		st.RemoveItem(req.Msg.ItemID)
		return nil
	}))
}

// AssignPerson adds a person to an item's assignees.
func (s *BillService) AssignPerson(ctx context.Context, req *connect.Request[api.AssignmentRequest]) (*connect.Response[api.BillView], error) {
	msg := req.Msg
	return s.respond(s.mutate(ctx, msg, msg.BillID, "assign_person", func(st *bill.Store, _ *models.Bill) error {
		st.AssignPerson(msg.ItemID, msg.PersonID)
		return nil
	}))
}

// UnassignPerson removes a person from an item's assignees.
func (s *BillService) UnassignPerson(ctx context.Context, req *connect.Request[api.AssignmentRequest]) (*connect.Response[api.BillView], error) {
	msg := req.Msg
	return s.respond(s.mutate(ctx, msg, msg.BillID, "unassign_person", func(st *bill.Store, _ *models.Bill) error {
		st.UnassignPerson(msg.ItemID, msg.PersonID)
		return nil
	}))
}

// AssignAll assigns an item to everyone on the bill.
func (s *BillService) AssignAll(ctx context.Context, req *connect.Request[api.AssignAllRequest]) (*connect.Response[api.BillView], error) {
	return s.respond(s.mutate(ctx, req.Msg, req.Msg.BillID, "assign_all", func(st *bill.Store, _ *models.Bill) error {
		st.AssignAll(req.Msg.ItemID)
		return nil
	}))
}

// UpdateConfig patches the tax and tip settings. The patch is applied as a
// whole or not at all.
func (s *BillService) UpdateConfig(ctx context.Context, req *connect.Request[api.UpdateConfigRequest]) (*connect.Response[api.BillView], error) {
	msg := req.Msg
	return s.respond(s.mutate(ctx, msg, msg.BillID, "update_config", func(st *bill.Store, _ *models.Bill) error {
		cfg := st.Config()
		if msg.TaxPercent != nil {
			cfg.TaxPercent = *msg.TaxPercent
		}
		if msg.TaxIncluded != nil {
			cfg.TaxIncluded = *msg.TaxIncluded
		}
		if msg.TipType != nil {
			cfg.TipType = models.TipType(*msg.TipType)
		}
		if msg.TipPercent != nil {
			cfg.TipPercent = *msg.TipPercent
		}
		if msg.TipAmount != nil {
			cfg.TipAmount = *msg.TipAmount
		}
		if msg.TipIsVoluntary != nil {
			cfg.TipIsVoluntary = *msg.TipIsVoluntary
		}
		if cfg == st.Config() {
			return nil
		}
		return st.SetConfig(cfg)
	}))
}

// SetStep moves the wizard to a step, or one step forward or back.
func (s *BillService) SetStep(ctx context.Context, req *connect.Request[api.SetStepRequest]) (*connect.Response[api.BillView], error) {
	msg := req.Msg
	return s.respond(s.mutate(ctx, msg, msg.BillID, "set_step", func(st *bill.Store, _ *models.Bill) error {
		switch msg.Move {
		case "next":
			st.NextStep()
			return nil
		case "prev":
			st.PrevStep()
			return nil
		}
		return st.SetStep(bill.Step(msg.Step))
	}))
}

// ResetBill clears people and items and restores the default config. The
// bill keeps its ID, title and token.
func (s *BillService) ResetBill(ctx context.Context, req *connect.Request[api.ResetBillRequest]) (*connect.Response[api.BillView], error) {
	return s.respond(s.mutate(ctx, req.Msg, req.Msg.BillID, "reset", func(st *bill.Store, b *models.Bill) error {
		st.Reset()
		b.Currency = scan.DefaultCurrency
		return nil
	}))
}

// ScanReceipt extracts items from a receipt photo and replaces the bill's
// item list with them. Nothing is committed when the scan fails or the
// caller goes away before it completes.
func (s *BillService) ScanReceipt(ctx context.Context, req *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.BillView], error) {
	msg := req.Msg
	if s.scanner == nil {
		return nil, connect.NewError(connect.CodeUnimplemented, errors.New("receipt scanning is not configured"))
	}
	if err := s.validate.Struct(msg); err != nil {
		return nil, toConnectError(err)
	}
	if _, err := s.store.GetBill(ctx, msg.BillID); err != nil {
		return nil, toConnectError(err)
	}

	img, err := scan.DecodeImage(msg.Image, msg.MediaType, scan.MaxPayloadBytes)
	if err != nil {
		return nil, toConnectError(err)
	}

	start := time.Now()
	scanCtx, cancel := context.WithTimeout(ctx, s.scanTimeout)
	result, err := s.scanner.Scan(scanCtx, img)
	cancel()
	s.metrics.ObserveScan(scanOutcome(ctx, err), time.Since(start))

	if ctx.Err() != nil {
		slog.Info("Scan abandoned by caller", "bill_id", msg.BillID)
		return nil, toConnectError(ctx.Err())
	}
	if err != nil {
		slog.Warn("Scan failed", "bill_id", msg.BillID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Receipt scanned",
		"bill_id", msg.BillID,
		"items", len(result.Items),
		"currency", result.Currency,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return s.respond(s.mutate(ctx, msg, msg.BillID, "scan_receipt", func(st *bill.Store, b *models.Bill) error {
		if _, err := st.ImportItems(result.Items); err != nil {
			return err
		}
		b.Currency = result.Currency
		if st.Step() == bill.StepEntry {
			st.NextStep()
		}
		return nil
	}))
}

func scanOutcome(ctx context.Context, err error) string {
	var upstream *scan.UpstreamError
	switch {
	case ctx.Err() != nil:
		return "cancelled"
	case err == nil:
		return "ok"
	case errors.Is(err, scan.ErrEmptyResult):
		return "empty"
	case errors.As(err, &upstream):
		return string(upstream.Class)
	default:
		return "error"
	}
}

// read loads a bill without changing it.
func (s *BillService) read(ctx context.Context, msg any, billID string) (*api.BillView, error) {
	if err := s.validate.Struct(msg); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(billID)
	defer unlock()

	b, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	return s.view(b, bill.FromModel(b)), nil
}

// mutate applies fn to the bill under its lock and saves the result if fn
// changed anything. A failing fn leaves the stored bill untouched.
func (s *BillService) mutate(ctx context.Context, msg any, billID, op string, fn func(*bill.Store, *models.Bill) error) (*api.BillView, error) {
	if err := s.validate.Struct(msg); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(billID)
	defer unlock()

	b, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	st := bill.FromModel(b)
	version, currency := st.Version(), b.Currency
	if err := fn(st, b); err != nil {
		return nil, err
	}

	if st.Version() != version || b.Currency != currency {
		st.ToModel(b)
		if err := s.store.UpdateBill(ctx, b); err != nil {
			return nil, fmt.Errorf("failed to save bill: %w", err)
		}
		s.metrics.IncrementMutation(op)
		slog.Debug("Bill updated", "bill_id", billID, "operation", op)
	}

	return s.view(b, st), nil
}

// view computes a fresh summary. Summaries are never cached between calls.
func (s *BillService) view(b *models.Bill, st *bill.Store) *api.BillView {
	snap := st.Snapshot()
	sum := calculator.Summarize(snap)
	s.metrics.IncrementSummaries()
	return toBillView(b, snap, sum)
}

func (s *BillService) respond(view *api.BillView, err error) (*connect.Response[api.BillView], error) {
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(view), nil
}
