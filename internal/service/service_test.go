package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/repository"
	"finance-tracker/internal/repository/sqlite"
	"finance-tracker/internal/storage"
)

var fixedNow = time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

type ServiceSuite struct {
	suite.Suite
	db      *sql.DB
	txRepo  repository.TransactionRepository
	users   *userService
	txs     *transactionService
	summary *summaryService
	ctx     context.Context
	alice   *domain.User
	bob     *domain.User
}

func (s *ServiceSuite) SetupTest() {
	db, err := sqlite.Open(filepath.Join(s.T().TempDir(), "finance.db"))
	require.NoError(s.T(), err)
	s.db = db
	s.ctx = context.Background()
	s.txRepo = sqlite.NewTransactionRepository(db)

	s.users = NewUserService(sqlite.NewUserRepository(db)).(*userService)
	s.users.cost = bcrypt.MinCost

	s.txs = NewTransactionService(s.txRepo, time.UTC).(*transactionService)
	s.txs.now = func() time.Time { return fixedNow }

	s.summary = NewSummaryService(s.txRepo, SummaryOptions{Location: time.UTC}).(*summaryService)
	s.summary.now = func() time.Time { return fixedNow }

	s.alice, err = s.users.Register(s.ctx, "Alice", "alice@example.com", "password123")
	require.NoError(s.T(), err)
	s.bob, err = s.users.Register(s.ctx, "Bob", "bob@example.com", "password123")
	require.NoError(s.T(), err)
}

func (s *ServiceSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *ServiceSuite) create(userID, amount, kind, date string) *domain.Transaction {
	tx, err := s.txs.Create(s.ctx, userID, CreateTransactionInput{
		Amount:      amount,
		Type:        kind,
		Description: kind + " " + amount,
		Date:        date,
	})
	require.NoError(s.T(), err)
	return tx
}

func (s *ServiceSuite) count(userID string) int {
	txs, err := s.txRepo.ListByUser(s.ctx, userID, nil)
	require.NoError(s.T(), err)
	return len(txs)
}

func (s *ServiceSuite) TestRegisterHidesHashAndNormalizesEmail() {
	user, err := s.users.Register(s.ctx, " Carol ", " Carol@Example.COM ", "password123")
	require.NoError(s.T(), err)
	assert.Empty(s.T(), user.PasswordHash)
	assert.Equal(s.T(), "carol@example.com", user.Email)
	assert.Equal(s.T(), "Carol", user.Name)
	assert.NotEmpty(s.T(), user.ID)
}

func (s *ServiceSuite) TestRegisterValidation() {
	cases := []struct{ name, email, password string }{
		{"", "x@example.com", "password123"},
		{"X", "", "password123"},
		{"X", "x@example.com", ""},
		{"X", "not-an-email", "password123"},
		{"X", "x@example.com", "short"},
	}
	for _, tc := range cases {
		_, err := s.users.Register(s.ctx, tc.name, tc.email, tc.password)
		assert.Equal(s.T(), domain.KindValidation, domain.KindOf(err), "%+v", tc)
	}
}

func (s *ServiceSuite) TestRegisterDuplicateEmailIsConflict() {
	_, err := s.users.Register(s.ctx, "Alice Again", "ALICE@example.com", "password456")
	assert.ErrorIs(s.T(), err, domain.ErrEmailTaken)

	var n int
	require.NoError(s.T(), s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, "alice@example.com").Scan(&n))
	assert.Equal(s.T(), 1, n)
}

func (s *ServiceSuite) TestAuthenticate() {
	user, err := s.users.Authenticate(s.ctx, "alice@example.com", "password123")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.alice.ID, user.ID)
	assert.Empty(s.T(), user.PasswordHash)

	_, err = s.users.Authenticate(s.ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(s.T(), err, domain.ErrInvalidCredentials)

	_, err = s.users.Authenticate(s.ctx, "ghost@example.com", "password123")
	assert.ErrorIs(s.T(), err, domain.ErrInvalidCredentials)
}

func (s *ServiceSuite) TestCreateDefaultsDateToNow() {
	tx, err := s.txs.Create(s.ctx, s.alice.ID, CreateTransactionInput{Amount: "12.50", Type: "expense", Description: "Lunch"})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), fixedNow, tx.Date)
	assert.Equal(s.T(), domain.Money(1250), tx.Amount)
	assert.Equal(s.T(), s.alice.ID, tx.UserID)
}

func (s *ServiceSuite) TestCreateRejectsInvalidInput() {
	cases := []CreateTransactionInput{
		{Amount: "-5", Type: "expense", Description: "neg"},
		{Amount: "0", Type: "expense", Description: "zero"},
		{Amount: "5", Type: "transfer", Description: "kind"},
		{Amount: "5", Type: "income", Description: "   "},
		{Amount: "5", Type: "income", Description: strings.Repeat("x", 256)},
		{Amount: "5", Type: "income", Description: "date", Date: "yesterday"},
	}
	for _, in := range cases {
		_, err := s.txs.Create(s.ctx, s.alice.ID, in)
		assert.Equal(s.T(), domain.KindValidation, domain.KindOf(err), "%+v", in)
	}
	assert.Equal(s.T(), 0, s.count(s.alice.ID))
}

func (s *ServiceSuite) TestUpdateByOwner() {
	tx := s.create(s.alice.ID, "10", "income", "2025-03-01")

	amount, kind := "99.99", "expense"
	updated, err := s.txs.Update(s.ctx, s.alice.ID, tx.ID, UpdateTransactionInput{Amount: &amount, Type: &kind})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.Money(9999), updated.Amount)
	assert.Equal(s.T(), domain.KindExpense, updated.Kind)
	assert.Equal(s.T(), tx.Description, updated.Description)

	_, err = s.txs.Update(s.ctx, s.alice.ID, tx.ID, UpdateTransactionInput{})
	assert.Equal(s.T(), domain.KindValidation, domain.KindOf(err))
}

func (s *ServiceSuite) TestForeignOwnerCannotMutate() {
	tx := s.create(s.bob.ID, "50", "income", "2025-03-02")

	desc := "hijacked"
	_, err := s.txs.Update(s.ctx, s.alice.ID, tx.ID, UpdateTransactionInput{Description: &desc})
	assert.ErrorIs(s.T(), err, domain.ErrForbidden)

	err = s.txs.Delete(s.ctx, s.alice.ID, tx.ID)
	assert.ErrorIs(s.T(), err, domain.ErrForbidden)

	_, err = s.txs.Get(s.ctx, s.alice.ID, tx.ID)
	assert.ErrorIs(s.T(), err, domain.ErrForbidden)

	stored, err := s.txRepo.Get(s.ctx, tx.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), tx.Description, stored.Description)
}

func (s *ServiceSuite) TestMissingResourceLooksForbidden() {
	err := s.txs.Delete(s.ctx, s.alice.ID, "does-not-exist")
	assert.ErrorIs(s.T(), err, domain.ErrForbidden)
}

func (s *ServiceSuite) TestDeleteIsPermanent() {
	tx := s.create(s.alice.ID, "10", "income", "")
	require.NoError(s.T(), s.txs.Delete(s.ctx, s.alice.ID, tx.ID))
	_, err := s.txRepo.Get(s.ctx, tx.ID)
	assert.ErrorIs(s.T(), err, domain.ErrNotFound)
}

func (s *ServiceSuite) TestSummaryWithoutTransactions() {
	sum, err := s.summary.Summary(s.ctx, s.alice.ID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), domain.Totals{}, sum.Totals)
	assert.Empty(s.T(), sum.Recent)
	require.Len(s.T(), sum.History, 3)
	labels := []string{}
	for _, m := range sum.History {
		labels = append(labels, m.Label)
		assert.Equal(s.T(), domain.Totals{}, m.Totals)
	}
	assert.Equal(s.T(), []string{"Jan", "Feb", "Mar"}, labels)
}

func (s *ServiceSuite) TestSummaryCurrentMonth() {
	s.create(s.alice.ID, "1000.00", "income", "2025-03-05")
	s.create(s.alice.ID, "400.00", "expense", "2025-03-10")
	s.create(s.alice.ID, "70", "expense", "2025-02-20")
	s.create(s.bob.ID, "5000", "income", "2025-03-05")

	sum, err := s.summary.Summary(s.ctx, s.alice.ID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), domain.Money(100000), sum.Totals.Income)
	assert.Equal(s.T(), domain.Money(40000), sum.Totals.Expense)
	assert.Equal(s.T(), domain.Money(60000), sum.Totals.Balance)
	assert.Equal(s.T(), 2, sum.Totals.Count)

	require.Len(s.T(), sum.History, 3)
	assert.Equal(s.T(), domain.Totals{}, sum.History[0].Totals)
	assert.Equal(s.T(), domain.Money(-7000), sum.History[1].Balance)
	assert.Equal(s.T(), sum.Totals, sum.History[2].Totals)

	require.Len(s.T(), sum.Recent, 3)
	assert.Equal(s.T(), domain.Money(40000), sum.Recent[0].Amount)
}

func (s *ServiceSuite) TestSummaryRecentIsCappedAcrossMonths() {
	for _, d := range []string{"2024-01-01", "2024-06-01", "2024-12-01", "2025-01-10", "2025-02-10", "2025-03-01", "2025-03-02"} {
		s.create(s.alice.ID, "1", "expense", d)
	}
	sum, err := s.summary.Summary(s.ctx, s.alice.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), sum.Recent, 5)
	assert.Equal(s.T(), "2025-03-02", sum.Recent[0].Date.Format(time.DateOnly))
	assert.Equal(s.T(), "2024-12-01", sum.Recent[4].Date.Format(time.DateOnly))
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

type failingRepo struct {
	repository.TransactionRepository
}

func (failingRepo) ListByUser(context.Context, string, *domain.DateRange) ([]domain.Transaction, error) {
	return nil, errors.New("database is locked")
}

func (failingRepo) ListRecent(context.Context, string, int) ([]domain.Transaction, error) {
	return nil, errors.New("database is locked")
}

func TestSummaryStoreFailureIsInternal(t *testing.T) {
	svc := NewSummaryService(failingRepo{}, SummaryOptions{Location: time.UTC})
	_, err := svc.Summary(context.Background(), "u-1")
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestParseDayRange(t *testing.T) {
	r, err := ParseDayRange("", "", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = ParseDayRange("2025-03-01", "2025-03-31", time.UTC)
	require.NoError(t, err)
	assert.True(t, r.Contains(time.Date(2025, time.March, 31, 23, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)))

	_, err = ParseDayRange("2025-04-01", "2025-03-01", time.UTC)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = ParseDayRange("03/01/2025", "", time.UTC)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestRenderCSV(t *testing.T) {
	txs := []domain.Transaction{
		{ID: "a", Kind: domain.KindIncome, Amount: 100050, Description: "Salary", Date: fixedNow},
		{ID: "b", Kind: domain.KindExpense, Amount: 5, Description: `say "hi", ok`, Date: fixedNow},
	}
	out, err := RenderCSV(txs, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "id,date,type,amount,description\n"+
		"a,2025-03-15,income,1000.50,Salary\n"+
		"b,2025-03-15,expense,0.05,\"say \"\"hi\"\", ok\"\n", string(out))
}

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryStore) PutObject(_ context.Context, body io.Reader, opts storage.PutOptions) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[opts.Key] = b
	return "s3://" + opts.Bucket + "/" + opts.Key, nil
}

func (m *memoryStore) ListObjects(_ context.Context, _ string, prefix string) ([]storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []storage.ObjectInfo{}
	for k, v := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(v))})
		}
	}
	return out, nil
}

func (m *memoryStore) DeletePrefix(_ context.Context, _ string, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			delete(m.objects, k)
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) GetObjectURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://" + bucket + ".example/" + key, nil
}

type listOnlyRepo struct {
	repository.TransactionRepository
	txs []domain.Transaction
}

func (r listOnlyRepo) ListByUser(context.Context, string, *domain.DateRange) ([]domain.Transaction, error) {
	return r.txs, nil
}

func TestExportLifecycle(t *testing.T) {
	store := &memoryStore{objects: map[string][]byte{}}
	logger, hook := test.NewNullLogger()
	repo := listOnlyRepo{txs: []domain.Transaction{
		{ID: "t1", Kind: domain.KindIncome, Amount: 1000, Description: "Gift", Date: fixedNow},
	}}
	svc := NewExportService(repo, store, ExportOptions{Bucket: "bucket", KeyPrefix: "/statements/", Location: time.UTC}, logger)

	st, err := svc.Export(context.Background(), "u-1", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(st.Key, "statements/u-1/"), st.Key)
	assert.Equal(t, 1, st.Rows)
	assert.Contains(t, st.URL, st.Key)
	assert.True(t, bytes.Contains(store.objects[st.Key], []byte("t1,2025-03-15,income,10.00,Gift")))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)

	_, err = svc.Export(context.Background(), "u-2", nil)
	require.NoError(t, err)

	list, err := svc.List(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	n, err := svc.Purge(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, store.objects, 1)
}

func TestExportDisabledWithoutBucket(t *testing.T) {
	svc := NewExportService(listOnlyRepo{}, nil, ExportOptions{}, nil)
	_, err := svc.Export(context.Background(), "u-1", nil)
	assert.ErrorIs(t, err, domain.ErrExportUnavailable)
	_, err = svc.List(context.Background(), "u-1")
	assert.ErrorIs(t, err, domain.ErrExportUnavailable)
}
