package application

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-todo-auth/internal/infrastructure/memory"
	"github.com/oksasatya/go-todo-auth/pkg/helpers"
)

var errBoom = errors.New("boom")

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type sentMail struct {
	To, Subject, Body string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (n *fakeNotifier) Notify(ctx context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail != nil {
		return n.fail
	}
	n.sent = append(n.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

var codeRe = regexp.MustCompile(`\d{6}`)

// lastCode returns the OTP in the most recent message.
func (n *fakeNotifier) lastCode(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent, "no notification sent")
	code := codeRe.FindString(n.sent[len(n.sent)-1].Body)
	require.NotEmpty(t, code)
	return code
}

type fakeImages struct {
	mu        sync.Mutex
	stored    map[string]bool
	destroyed []string
	seq       int
	failUp    error
}

func newFakeImages() *fakeImages { return &fakeImages{stored: map[string]bool{}} }

func (f *fakeImages) Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUp != nil {
		return "", "", f.failUp
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", "", err
	}
	f.seq++
	id := "todoApp/" + strconv.Itoa(f.seq) + "-" + filename
	f.stored[id] = true
	return id, "https://img.test/" + id, nil
}

func (f *fakeImages) Destroy(ctx context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stored, publicID)
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

type fakeIndex struct {
	mu   sync.Mutex
	docs map[string]map[string]any
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[string]map[string]any{}} }

func (x *fakeIndex) Put(ctx context.Context, id string, doc map[string]any) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.docs[id] = doc
	return nil
}

func (x *fakeIndex) Remove(ctx context.Context, id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.docs, id)
	return nil
}

func (x *fakeIndex) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	var out []map[string]any
	for _, d := range x.docs {
		if d["email"] == q || d["name"] == q {
			out = append(out, d)
		}
	}
	return out, nil
}

type fixture struct {
	svc    *Service
	repo   *memory.AccountRepository
	mail   *fakeNotifier
	images *fakeImages
	index  *fakeIndex
	clock  *testClock
	jwt    *helpers.JWTManager
	logs   *logtest.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &testClock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	jwt := helpers.NewJWTManager("test-secret", 5*24*time.Hour)
	jwt.Now = clock.Now
	logger, logs := logtest.NewNullLogger()

	f := &fixture{
		repo:   memory.NewAccountRepository(bcrypt.MinCost),
		mail:   &fakeNotifier{},
		images: newFakeImages(),
		index:  newFakeIndex(),
		clock:  clock,
		jwt:    jwt,
		logs:   logs,
	}
	f.svc = NewService(Deps{
		Repo:      f.repo,
		Tokens:    jwt,
		Images:    f.images,
		Notifier:  f.mail,
		Index:     f.index,
		Logger:    logger,
		OTPExpire: 5 * time.Minute,
		Now:       clock.Now,
	})
	return f
}

func (f *fixture) register(t *testing.T, email, password string) *AuthResult {
	t.Helper()
	res, err := f.svc.Register(context.Background(), RegisterInput{Name: "A", Email: email, Password: password})
	require.NoError(t, err)
	return res
}
