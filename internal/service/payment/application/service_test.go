package application

import (
	"context"
	"testing"
	"time"

	"paygate/internal/service/payment/domain"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

// ---- 测试替身 ----

// callRecorder 记录跨依赖的副作用执行顺序
type callRecorder struct {
	calls []string
}

func (r *callRecorder) record(name string) {
	r.calls = append(r.calls, name)
}

type fakeCardRepo struct {
	recorder *callRecorder
	entries  map[string][]domain.VaultEntry
	saveErr  error
	saved    []domain.VaultEntry
}

func (f *fakeCardRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.VaultEntry, error) {
	return f.entries[customerID], nil
}

func (f *fakeCardRepo) Save(_ context.Context, entry *domain.VaultEntry) error {
	if f.recorder != nil {
		f.recorder.record("vault_save")
	}
	if f.saveErr != nil {
		return f.saveErr
	}
	entry.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, *entry)
	f.entries[entry.CustomerID] = append(f.entries[entry.CustomerID], *entry)
	return nil
}

type fakeProcessor struct {
	result domain.ChargeResult
	err    error

	chargeCalls int
	lastCharge  domain.ChargeRequest

	refundResult domain.RefundResult
	refundErr    error
	refundCalls  int
	lastRefundID string
	lastValue    int64
}

func (f *fakeProcessor) CreateCharge(_ context.Context, req domain.ChargeRequest) (domain.ChargeResult, error) {
	f.chargeCalls++
	f.lastCharge = req
	return f.result, f.err
}

func (f *fakeProcessor) RefundCharge(_ context.Context, transactionID string, value int64, _ string) (domain.RefundResult, error) {
	f.refundCalls++
	f.lastRefundID = transactionID
	f.lastValue = value
	return f.refundResult, f.refundErr
}

type fakeOrders struct {
	recorder   *callRecorder
	lastStatus string
	lastNote   string
}

func (f *fakeOrders) UpdateStatus(_ context.Context, _ domain.Order, newStatus, note string) error {
	f.recorder.record("update_status")
	f.lastStatus = newStatus
	f.lastNote = note
	return nil
}

func (f *fakeOrders) ReduceStock(_ context.Context, _ domain.Order) error {
	f.recorder.record("reduce_stock")
	return nil
}

func (f *fakeOrders) EmptyCart(_ context.Context, _ domain.Order) error {
	f.recorder.record("empty_cart")
	return nil
}

func (f *fakeOrders) RecordTransactionID(_ context.Context, _ domain.Order, transactionID string) error {
	f.recorder.record("record_transaction:" + transactionID)
	return nil
}

type fakePending struct {
	store  map[string]string
	putErr error
}

func (f *fakePending) Put(_ context.Context, orderID, transactionID string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.store[orderID] = transactionID
	return nil
}

func (f *fakePending) Get(_ context.Context, orderID string) (string, error) {
	return f.store[orderID], nil
}

type fakeNotifier struct {
	recorder *callRecorder
	approved int
	refunded int
	err      error
}

func (f *fakeNotifier) PaymentApproved(_ context.Context, _ domain.Order, _ string) error {
	f.recorder.record("notify_approved")
	f.approved++
	return f.err
}

func (f *fakeNotifier) PaymentRefunded(_ context.Context, _ domain.Order, _ int64) error {
	f.refunded++
	return f.err
}

// ---- 组装 ----

type fixture struct {
	service   *PaymentService
	recorder  *callRecorder
	repo      *fakeCardRepo
	processor *fakeProcessor
	orders    *fakeOrders
	pending   *fakePending
	notifier  *fakeNotifier
}

func newFixture(cfg domain.GatewayConfig) *fixture {
	recorder := &callRecorder{}
	repo := &fakeCardRepo{recorder: recorder, entries: map[string][]domain.VaultEntry{}}
	processor := &fakeProcessor{}
	orders := &fakeOrders{recorder: recorder}
	pending := &fakePending{store: map[string]string{}}
	notifier := &fakeNotifier{recorder: recorder}

	tracer := otel.Tracer("test")
	vault := NewVaultService(repo, tracer)
	service := NewPaymentService(cfg, tracer, vault, processor, orders, pending, notifier)

	return &fixture{
		service: service, recorder: recorder, repo: repo,
		processor: processor, orders: orders, pending: pending, notifier: notifier,
	}
}

func testConfig() domain.GatewayConfig {
	return domain.GatewayConfig{
		SecretKey:      "sk_test",
		PaymentAction:  domain.PaymentActionCapture,
		OrderStatus:    domain.OrderStatusProcessing,
		Mode:           domain.ModeSandbox,
		RequestTimeout: 5 * time.Second,
	}
}

func testOrder() domain.Order {
	return domain.Order{
		ID:               "order-1001",
		Currency:         "USD",
		Amount:           100.00,
		BillingEmail:     "jane@example.com",
		BillingFirstName: "Jane",
		BillingLastName:  "Doe",
		CustomerID:       "42",
	}
}

func newCardSubmission() CheckoutSubmission {
	return CheckoutSubmission{
		Selector: domain.NewCardSentinel,
		Card: domain.CardInput{
			Number:      "4242424242424242",
			CVC:         "123",
			HolderName:  "Jane Doe",
			ExpiryMonth: 12,
			ExpiryYear:  2030,
		},
		SaveCard: true,
	}
}

func approvedChargeResult() domain.ChargeResult {
	result := domain.ApprovedResult("txn_1")
	result.CardToken = "card_tok_new"
	result.CardLast4 = "4242"
	result.CardBrand = "Visa"
	return result
}

// ---- 支付流程 ----

func TestProcessPayment_Approved(t *testing.T) {
	f := newFixture(testConfig())
	f.processor.result = approvedChargeResult()

	outcome, err := f.service.ProcessPayment(context.Background(), testOrder(), newCardSubmission())
	require.NoError(t, err)

	assert.Equal(t, domain.StateCompleted, outcome.State)
	assert.Equal(t, "txn_1", outcome.TransactionID)
	assert.Empty(t, outcome.RedirectURL)

	// 扣款请求内容
	assert.Equal(t, 1, f.processor.chargeCalls)
	assert.Equal(t, int64(10000), f.processor.lastCharge.Value)
	assert.Equal(t, "Y", f.processor.lastCharge.AutoCapture)
	assert.NotEmpty(t, f.processor.lastCharge.IdempotencyKey)

	// 副作用顺序：状态流转 -> 库存 -> 购物车 -> 交易号 -> 存卡 -> 通知
	assert.Equal(t, []string{
		"update_status",
		"reduce_stock",
		"empty_cart",
		"record_transaction:txn_1",
		"vault_save",
		"notify_approved",
	}, f.recorder.calls)
	assert.Equal(t, domain.OrderStatusProcessing, f.orders.lastStatus)
	assert.Contains(t, f.orders.lastNote, "txn_1")

	// 存卡结果
	require.Len(t, f.repo.saved, 1)
	assert.Equal(t, "card_tok_new", f.repo.saved[0].CardToken)
	assert.Equal(t, "4242", f.repo.saved[0].MaskedNumber)
	assert.Equal(t, "Visa", f.repo.saved[0].Brand)
}

func TestProcessPayment_IdempotencyKeyChangesPerAttempt(t *testing.T) {
	f := newFixture(testConfig())
	f.processor.result = approvedChargeResult()

	_, err := f.service.ProcessPayment(context.Background(), testOrder(), newCardSubmission())
	require.NoError(t, err)
	firstKey := f.processor.lastCharge.IdempotencyKey

	_, err = f.service.ProcessPayment(context.Background(), testOrder(), newCardSubmission())
	require.NoError(t, err)

	assert.NotEqual(t, firstKey, f.processor.lastCharge.IdempotencyKey)
}

func TestProcessPayment_MissingSelector(t *testing.T) {
	f := newFixture(testConfig())

	submission := newCardSubmission()
	submission.Selector = ""

	outcome, err := f.service.ProcessPayment(context.Background(), testOrder(), submission)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCard)
	assert.Equal(t, domain.StateRejected, outcome.State)
	assert.Zero(t, f.processor.chargeCalls)
	assert.Empty(t, f.recorder.calls)
}

func TestProcessPayment_InvalidCardNeverReachesProcessor(t *testing.T) {
	f := newFixture(testConfig())

	submission := newCardSubmission()
	submission.Card.Number = "4242424242424241" // Luhn 校验失败

	outcome, err := f.service.ProcessPayment(context.Background(), testOrder(), submission)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCard)
	assert.Equal(t, domain.StateRejected, outcome.State)
	assert.Zero(t, f.processor.chargeCalls)
}

func TestProcessPayment_ForgedSelectorNoProcessorCall(t *testing.T) {
	f := newFixture(testConfig())
	f.repo.entries["42"] = []domain.VaultEntry{
		{ID: 1, CustomerID: "42", CardToken: "card_tok_aaa", MaskedNumber: "4242", Brand: "Visa"},
	}

	submission := CheckoutSubmission{Selector: "forged-selector"}

	outcome, err := f.service.ProcessPayment(context.Background(), testOrder(), submission)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCardNotFound)
	assert.Equal(t, domain.StateRejected, outcome.State)
	assert.Zero(t, f.processor.chargeCalls)
	assert.Empty(t, f.recorder.calls)
}

func TestProcessPayment_SavedCardResolved(t *testing.T) {
	f := newFixture(testConfig())
	entry := domain.VaultEntry{ID: 1, CustomerID: "42", CardToken: "card_tok_aaa", MaskedNumber: "4242", Brand: "Visa"}
	f.repo.entries["42"] = []domain.VaultEntry{entry}
	f.processor.result = domain.ApprovedResult("txn_2")

	submission := CheckoutSubmission{Selector: entry.Fingerprint()}

	outcome, err := f.service.ProcessPayment(context.Background(), testOrder(), submission)
	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, outcome.State)

	// 已存卡扣款必须携带处理方 token，而不是原始卡字段
	assert.Equal(t, "card_tok_aaa", f.processor.lastCharge.CardToken)
	assert.Nil(t, f.processor.lastCharge.Card)
}

func TestProcessPayment_RedirectLeavesOrderUntouched(t *testing.T) {
	f := newFixture(testConfig())
	f.processor.result = domain.RedirectResult("txn_3ds", "https://acs.example/3ds")

	outcome, err := f.service.ProcessPayment(context.Background(), testOrder(), newCardSubmission())
	require.NoError(t, err)

	assert.Equal(t, domain.StateRedirectPending, outcome.State)
	assert.Equal(t, "https://acs.example/3ds", outcome.RedirectURL)
	assert.Equal(t, "txn_3ds", outcome.TransactionID)

	// 订单不动、卡库不写，只登记待确认交易号
	assert.Empty(t, f.recorder.calls)
	assert.Empty(t, f.repo.saved)
	assert.Equal(t, "txn_3ds", f.pending.store["order-1001"])
}

func TestProcessPayment_ProcessorDeclined(t *testing.T) {
	f := newFixture(testConfig())
	f.processor.result = domain.FailedResult("card declined")

	outcome, err := f.service.ProcessPayment(context.Background(), testOrder(), newCardSubmission())
	require.Error(t, err)

	var processorErr *domain.ProcessorError
	require.ErrorAs(t, err, &processorErr)
	assert.Equal(t, "card declined", processorErr.Message)
	assert.Equal(t, domain.StateRejected, outcome.State)
	assert.Empty(t, f.recorder.calls)
}

func TestProcessPayment_TransportFailureIsProcessorError(t *testing.T) {
	f := newFixture(testConfig())
	f.processor.err = errors.New("connection reset")

	outcome, err := f.service.ProcessPayment(context.Background(), testOrder(), newCardSubmission())
	require.Error(t, err)

	var processorErr *domain.ProcessorError
	require.ErrorAs(t, err, &processorErr)
	assert.Equal(t, domain.StateRejected, outcome.State)
	assert.Empty(t, f.recorder.calls)
}

func TestProcessPayment_VaultSaveFailureIsNonFatal(t *testing.T) {
	f := newFixture(testConfig())
	f.processor.result = approvedChargeResult()
	f.repo.saveErr = errors.New("disk full")

	outcome, err := f.service.ProcessPayment(context.Background(), testOrder(), newCardSubmission())
	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, outcome.State)
	assert.Equal(t, 1, f.notifier.approved)
}

func TestProcessPayment_GuestCheckoutNeverVaults(t *testing.T) {
	f := newFixture(testConfig())
	f.processor.result = approvedChargeResult()

	order := testOrder()
	order.CustomerID = "" // 游客结账

	outcome, err := f.service.ProcessPayment(context.Background(), order, newCardSubmission())
	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, outcome.State)
	assert.Empty(t, f.repo.saved)
	assert.NotContains(t, f.recorder.calls, "vault_save")
}

func TestProcessPayment_OptOutNeverVaults(t *testing.T) {
	f := newFixture(testConfig())
	f.processor.result = approvedChargeResult()

	submission := newCardSubmission()
	submission.SaveCard = false

	_, err := f.service.ProcessPayment(context.Background(), testOrder(), submission)
	require.NoError(t, err)
	assert.Empty(t, f.repo.saved)
}

// 卡库闭环：存卡后列出的选择器必须能解析回同一条记录
func TestVaultRoundTrip(t *testing.T) {
	f := newFixture(testConfig())
	f.processor.result = approvedChargeResult()

	_, err := f.service.ProcessPayment(context.Background(), testOrder(), newCardSubmission())
	require.NoError(t, err)

	views, err := f.service.ListSavedCards(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "xxxx-4242 Visa", views[0].Label)

	f.processor.result = domain.ApprovedResult("txn_again")
	submission := CheckoutSubmission{Selector: views[0].Selector}

	outcome, err := f.service.ProcessPayment(context.Background(), testOrder(), submission)
	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, outcome.State)
	assert.Equal(t, "card_tok_new", f.processor.lastCharge.CardToken)
}

// ---- 退款 ----

func TestRefund_FullAmountByDefault(t *testing.T) {
	f := newFixture(testConfig())
	f.processor.refundResult = domain.RefundResult{OK: true}

	order := testOrder()
	order.TransactionID = "txn_1"

	result, err := f.service.Refund(context.Background(), order, nil, "customer request")
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, "txn_1", f.processor.lastRefundID)
	assert.Equal(t, int64(10000), f.processor.lastValue)
	assert.Equal(t, 1, f.notifier.refunded)
}

func TestRefund_ExplicitAmount(t *testing.T) {
	f := newFixture(testConfig())
	f.processor.refundResult = domain.RefundResult{OK: true}

	order := testOrder()
	order.TransactionID = "txn_1"

	amount := 25.50
	_, err := f.service.Refund(context.Background(), order, &amount, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2550), f.processor.lastValue)
}

func TestRefund_FailureMessagePropagatedVerbatim(t *testing.T) {
	f := newFixture(testConfig())
	f.processor.refundResult = domain.RefundResult{OK: false, Message: "insufficient funds"}

	order := testOrder()
	order.TransactionID = "txn_1"

	result, err := f.service.Refund(context.Background(), order, nil, "")
	require.Error(t, err)

	var processorErr *domain.ProcessorError
	require.ErrorAs(t, err, &processorErr)
	assert.Equal(t, "insufficient funds", processorErr.Message)
	assert.Equal(t, "insufficient funds", result.Message)
	assert.Zero(t, f.notifier.refunded)
}

func TestRefund_MissingTransactionID(t *testing.T) {
	f := newFixture(testConfig())

	_, err := f.service.Refund(context.Background(), testOrder(), nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingTransactionID)
	assert.Zero(t, f.processor.refundCalls)
}
