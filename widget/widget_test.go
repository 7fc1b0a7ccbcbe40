package widget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NovaChat/ai"
	"NovaChat/entity"
)

type fakeRealtime struct {
	mu sync.Mutex

	session  *entity.ChatSession
	history  []entity.ChatMessage
	startErr error
	sendErr  error
	subErr   error

	sent         []entity.ChatMessage
	subSeq       int
	activeKey    string
	onMessage    func(entity.ChatMessage)
	onSession    func(entity.ChatSession)
	unsubscribed []string
	metadata     []entity.VisitorMetadata
	ended        []string
	patches      []entity.SessionPatch
}

func (f *fakeRealtime) FindOrCreateSession(_ context.Context, name, email, visitorID, tenantID string) (*entity.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return nil, f.startErr
	}
	if f.session == nil {
		f.session = &entity.ChatSession{
			ID:           "sess-1",
			TenantID:     tenantID,
			VisitorID:    visitorID,
			VisitorName:  name,
			VisitorEmail: email,
			Status:       entity.SessionActive,
		}
	}
	sess := *f.session
	return &sess, nil
}

func (f *fakeRealtime) GetMessages(_ context.Context, sessionID string) ([]entity.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.ChatMessage, len(f.history))
	copy(out, f.history)
	return out, nil
}

func (f *fakeRealtime) SendMessage(_ context.Context, msg entity.ChatMessage) error {
	f.mu.Lock()
	if f.sendErr != nil {
		err := f.sendErr
		f.mu.Unlock()
		return err
	}
	f.sent = append(f.sent, msg)
	deliver := f.onMessage
	f.mu.Unlock()

	// The hub echoes every stored message back to subscribers
	if deliver != nil {
		deliver(msg)
	}
	return nil
}

func (f *fakeRealtime) SubscribeToSession(sessionID string, onMessage func(entity.ChatMessage), onSessionUpdate func(entity.ChatSession)) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subErr != nil {
		return "", f.subErr
	}
	f.subSeq++
	key := fmt.Sprintf("session:%s:%d", sessionID, f.subSeq)
	f.activeKey = key
	f.onMessage = onMessage
	f.onSession = onSessionUpdate
	return key, nil
}

func (f *fakeRealtime) Unsubscribe(channelKey string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribed = append(f.unsubscribed, channelKey)
	if channelKey == f.activeKey {
		f.onMessage = nil
		f.onSession = nil
		f.activeKey = ""
	}
}

func (f *fakeRealtime) UpdateSession(_ context.Context, sessionID string, patch entity.SessionPatch) (*entity.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patch)
	if patch.Status != nil {
		f.session.Status = *patch.Status
	}
	if patch.AgentID != nil {
		f.session.AgentID = *patch.AgentID
	}
	sess := *f.session
	return &sess, nil
}

func (f *fakeRealtime) EndSession(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended = append(f.ended, sessionID)
	return nil
}

func (f *fakeRealtime) UpdateVisitorMetadata(_ context.Context, sessionID string, meta entity.VisitorMetadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metadata = append(f.metadata, meta)
	return nil
}

func (f *fakeRealtime) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeRealtime) pushSessionUpdate(sess entity.ChatSession) {
	f.mu.Lock()
	deliver := f.onSession
	f.mu.Unlock()
	if deliver != nil {
		deliver(sess)
	}
}

type fakeConfigs struct {
	conf *entity.WidgetConfig
	err  error
}

func (f *fakeConfigs) GetGlobalConfig(context.Context) (*entity.WidgetConfig, error) {
	return f.conf, f.err
}

func (f *fakeConfigs) GetConfig(context.Context, string) (*entity.WidgetConfig, error) {
	return f.conf, f.err
}

func (f *fakeConfigs) GetConfigByOrigin(context.Context, string) (*entity.WidgetConfig, error) {
	return f.conf, f.err
}

type fakeResponder struct {
	mu     sync.Mutex
	reply  string
	err    error
	called int
	last   ai.Request
}

func (f *fakeResponder) GetAIResponse(_ context.Context, req ai.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called++
	f.last = req
	return f.reply, f.err
}

func (f *fakeResponder) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.called
}

type memIdentity struct {
	mu      sync.Mutex
	id      string
	loadErr error
}

func (m *memIdentity) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, m.loadErr
}

func (m *memIdentity) Store(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = id
	return nil
}

type fakeFrame struct {
	mu    sync.Mutex
	posts []string
}

func (f *fakeFrame) Post(msg FrameMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append(f.posts, msg.Type)
}

func (f *fakeFrame) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.posts))
	copy(out, f.posts)
	return out
}

type fakeNotifier struct {
	mu       sync.Mutex
	handoffs []entity.ChatSession
}

func (f *fakeNotifier) NotifyHandoff(sess entity.ChatSession) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handoffs = append(f.handoffs, sess)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handoffs)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *entity.WidgetConfig {
	conf := entity.DefaultWidgetConfig()
	conf.TenantID = "tenant-1"
	return conf
}

func newMounted(t *testing.T, rt *fakeRealtime, conf *entity.WidgetConfig) *Widget {
	t.Helper()
	w := New(rt, &fakeConfigs{conf: conf}, testLogger())
	w.Mount(context.Background(), MountOptions{Mode: ConfigTenant, TenantID: conf.TenantID})
	return w
}

func startSession(t *testing.T, w *Widget) {
	t.Helper()
	require.NoError(t, w.StartSession(context.Background(), "Ada", "ada@example.com"))
	require.Equal(t, StatusConnected, w.ConnectionStatus())
}

func TestStartSessionLoadsHistoryBeforeConversation(t *testing.T) {
	rt := &fakeRealtime{
		session: &entity.ChatSession{ID: "sess-1", Status: entity.SessionActive},
		history: []entity.ChatMessage{
			{ID: "m1", SessionID: "sess-1", Content: "hi", Sender: entity.SenderVisitor},
			{ID: "m2", SessionID: "sess-1", Content: "hello", Sender: entity.SenderAgent},
		},
	}
	w := newMounted(t, rt, testConfig())
	require.Equal(t, ViewPreChat, w.View())

	startSession(t, w)

	require.Equal(t, ViewConversation, w.View())
	sess := w.Session()
	require.NotNil(t, sess)
	assert.Equal(t, "sess-1", sess.ID)

	msgs := w.Messages()
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Equal(t, entity.DeliveryConfirmed, m.Delivery)
	}
}

func TestStartSessionFailureKeepsPreChat(t *testing.T) {
	rt := &fakeRealtime{startErr: errors.New("backend down")}
	w := newMounted(t, rt, testConfig())

	err := w.StartSession(context.Background(), "Ada", "")
	require.ErrorIs(t, err, ErrSessionStart)

	assert.Equal(t, ViewPreChat, w.View())
	assert.Nil(t, w.Session())
	assert.NotEmpty(t, w.Notice())

	// The failure is retryable
	rt.mu.Lock()
	rt.startErr = nil
	rt.mu.Unlock()
	startSession(t, w)
	assert.Empty(t, w.Notice())
}

func TestStartSessionResumesExisting(t *testing.T) {
	rt := &fakeRealtime{
		session: &entity.ChatSession{ID: "resumed", Status: entity.SessionUnassigned},
	}
	w := newMounted(t, rt, testConfig())
	startSession(t, w)

	sess := w.Session()
	require.NotNil(t, sess)
	assert.Equal(t, "resumed", sess.ID)
	assert.Equal(t, entity.SessionUnassigned, sess.Status)
}

func TestSendBlockedSilentlyWithoutSession(t *testing.T) {
	rt := &fakeRealtime{}
	w := newMounted(t, rt, testConfig())

	require.NoError(t, w.Send(context.Background(), "hello"))
	assert.Zero(t, rt.sentCount())
	assert.Empty(t, w.Messages())
}

func TestSendBlockedSilentlyOnEmptyInput(t *testing.T) {
	rt := &fakeRealtime{}
	w := newMounted(t, rt, testConfig())
	startSession(t, w)

	require.NoError(t, w.Send(context.Background(), "   \n\t"))
	assert.Zero(t, rt.sentCount())
}

func TestSendOptimisticThenConfirmed(t *testing.T) {
	rt := &fakeRealtime{}
	w := newMounted(t, rt, testConfig())
	startSession(t, w)

	require.NoError(t, w.Send(context.Background(), "  hello there  "))

	msgs := w.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello there", msgs[0].Content)
	assert.Equal(t, entity.SenderVisitor, msgs[0].Sender)
	assert.Equal(t, entity.DeliveryConfirmed, msgs[0].Delivery)
	assert.Equal(t, 1, rt.sentCount())
}

func TestSendThrottled(t *testing.T) {
	rt := &fakeRealtime{}
	w := newMounted(t, rt, testConfig())
	startSession(t, w)

	cur := time.Now()
	w.now = func() time.Time { return cur }

	require.NoError(t, w.Send(context.Background(), "first"))

	cur = cur.Add(500 * time.Millisecond)
	err := w.Send(context.Background(), "second")
	require.ErrorIs(t, err, ErrThrottled)
	assert.NotEmpty(t, w.Notice())
	assert.Equal(t, 1, rt.sentCount())

	cur = cur.Add(3 * time.Second)
	require.NoError(t, w.Send(context.Background(), "third"))
	assert.Equal(t, 2, rt.sentCount())
}

func TestSendBlockedSilentlyWhileDisconnected(t *testing.T) {
	rt := &fakeRealtime{}
	w := newMounted(t, rt, testConfig())
	startSession(t, w)

	w.mu.Lock()
	w.connStatus = StatusDisconnected
	w.mu.Unlock()

	require.NoError(t, w.Send(context.Background(), "hello"))
	assert.Zero(t, rt.sentCount())
	assert.Empty(t, w.Messages())
	assert.Empty(t, w.Notice())
}

func TestThrottleNoticeClearsAutomatically(t *testing.T) {
	rt := &fakeRealtime{}
	w := newMounted(t, rt, testConfig())
	startSession(t, w)
	w.noticeTTL = 30 * time.Millisecond

	cur := time.Now()
	w.now = func() time.Time { return cur }

	require.NoError(t, w.Send(context.Background(), "first"))
	require.ErrorIs(t, w.Send(context.Background(), "second"), ErrThrottled)
	require.NotEmpty(t, w.Notice())

	require.Eventually(t, func() bool {
		return w.Notice() == ""
	}, 2*time.Second, 5*time.Millisecond)

	// A throttled retry re-arms the warning
	require.ErrorIs(t, w.Send(context.Background(), "third"), ErrThrottled)
	assert.NotEmpty(t, w.Notice())
}

func TestSendFailureRollsBackOptimisticEntry(t *testing.T) {
	rt := &fakeRealtime{
		history: []entity.ChatMessage{
			{ID: "m1", SessionID: "sess-1", Content: "earlier", Sender: entity.SenderAgent},
		},
		session: &entity.ChatSession{ID: "sess-1", Status: entity.SessionActive},
	}
	w := newMounted(t, rt, testConfig())
	startSession(t, w)
	before := w.Messages()

	rt.mu.Lock()
	rt.sendErr = errors.New("network down")
	rt.mu.Unlock()

	err := w.Send(context.Background(), "doomed")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrThrottled)

	assert.Equal(t, before, w.Messages())
	assert.NotEmpty(t, w.Notice())

	// A failed send does not start the throttle window
	rt.mu.Lock()
	rt.sendErr = nil
	rt.mu.Unlock()
	require.NoError(t, w.Send(context.Background(), "retry"))
}

func TestAIReplyArrivesThroughSubscription(t *testing.T) {
	conf := testConfig()
	conf.AI = entity.AISettings{Enabled: true, Provider: "openai", AssistantName: "Nova"}

	rt := &fakeRealtime{}
	responder := &fakeResponder{reply: "Happy to help!"}
	w := newMounted(t, rt, conf)
	w.SetResponder(responder)
	startSession(t, w)

	require.NoError(t, w.Send(context.Background(), "what are your prices?"))

	require.Eventually(t, func() bool {
		for _, m := range w.Messages() {
			if m.Sender == entity.SenderAI {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	msgs := w.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Happy to help!", msgs[1].Content)
	assert.Equal(t, "Nova", msgs[1].SenderName)
	assert.Equal(t, entity.DeliveryConfirmed, msgs[1].Delivery)

	responder.mu.Lock()
	assert.Equal(t, "what are your prices?", responder.last.Message)
	assert.Empty(t, responder.last.History)
	responder.mu.Unlock()
}

func TestNoAIReplyWhenAgentAssigned(t *testing.T) {
	conf := testConfig()
	conf.AI.Enabled = true

	rt := &fakeRealtime{
		session: &entity.ChatSession{ID: "sess-1", Status: entity.SessionActive, AgentID: "agent-7"},
	}
	responder := &fakeResponder{reply: "should never appear"}
	w := newMounted(t, rt, conf)
	w.SetResponder(responder)
	startSession(t, w)

	require.NoError(t, w.Send(context.Background(), "hello"))

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, responder.calls())
	require.Len(t, w.Messages(), 1)
}

func TestNoAIReplyWhenDisabled(t *testing.T) {
	rt := &fakeRealtime{}
	responder := &fakeResponder{reply: "should never appear"}
	w := newMounted(t, rt, testConfig())
	w.SetResponder(responder)
	startSession(t, w)

	require.NoError(t, w.Send(context.Background(), "hello"))

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, responder.calls())
}

func TestErrorLikeAIReplyDiscarded(t *testing.T) {
	conf := testConfig()
	conf.AI.Enabled = true

	rt := &fakeRealtime{}
	responder := &fakeResponder{reply: ai.MissingCredentialMarker}
	w := newMounted(t, rt, conf)
	w.SetResponder(responder)
	startSession(t, w)

	require.NoError(t, w.Send(context.Background(), "hello"))

	require.Eventually(t, func() bool { return responder.calls() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	require.Len(t, w.Messages(), 1)
	assert.Equal(t, 1, rt.sentCount())
}

func TestLateAIReplyDroppedAfterSessionEnds(t *testing.T) {
	conf := testConfig()
	conf.AI.Enabled = true

	rt := &fakeRealtime{}
	block := make(chan struct{})
	responder := &blockingResponder{release: block, reply: "too late"}
	w := newMounted(t, rt, conf)
	w.SetResponder(responder)
	startSession(t, w)

	require.NoError(t, w.Send(context.Background(), "hello"))
	require.NoError(t, w.EndSession(context.Background(), true))

	close(block)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, rt.sentCount())
	assert.Nil(t, w.Session())
}

type blockingResponder struct {
	release chan struct{}
	reply   string
}

func (b *blockingResponder) GetAIResponse(ctx context.Context, _ ai.Request) (string, error) {
	select {
	case <-b.release:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return b.reply, nil
}

func TestRequestHumanAgent(t *testing.T) {
	conf := testConfig()
	conf.AI.Enabled = true

	rt := &fakeRealtime{}
	responder := &fakeResponder{reply: "automated"}
	notifier := &fakeNotifier{}
	w := newMounted(t, rt, conf)
	w.SetResponder(responder)
	w.SetNotifier(notifier)
	startSession(t, w)

	require.NoError(t, w.RequestHumanAgent(context.Background()))

	sess := w.Session()
	require.NotNil(t, sess)
	assert.Equal(t, entity.SessionUnassigned, sess.Status)

	msgs := w.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, entity.SenderSystem, msgs[0].Sender)

	require.Eventually(t, func() bool { return notifier.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	// No automated replies while waiting for pickup
	require.NoError(t, w.Send(context.Background(), "anyone there?"))
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, responder.calls())

	// Repeat requests are no-ops
	require.NoError(t, w.RequestHumanAgent(context.Background()))
	rt.mu.Lock()
	patchCount := len(rt.patches)
	rt.mu.Unlock()
	assert.Equal(t, 1, patchCount)
}

func TestEndSessionRequiresConfirmation(t *testing.T) {
	rt := &fakeRealtime{}
	w := newMounted(t, rt, testConfig())
	startSession(t, w)

	err := w.EndSession(context.Background(), false)
	require.ErrorIs(t, err, ErrConfirmationRequired)
	require.NotNil(t, w.Session())

	require.NoError(t, w.EndSession(context.Background(), true))
	assert.Nil(t, w.Session())
	assert.Empty(t, w.Messages())
	assert.Equal(t, ViewPreChat, w.View())
	assert.Equal(t, StatusDisconnected, w.ConnectionStatus())

	rt.mu.Lock()
	defer rt.mu.Unlock()
	assert.Equal(t, []string{"sess-1"}, rt.ended)
	assert.NotEmpty(t, rt.unsubscribed)
}

func TestConcludedSessionUpdateTearsDown(t *testing.T) {
	rt := &fakeRealtime{}
	w := newMounted(t, rt, testConfig())
	startSession(t, w)
	require.NoError(t, w.Send(context.Background(), "hello"))

	rt.pushSessionUpdate(entity.ChatSession{ID: "sess-1", Status: entity.SessionResolved})

	assert.Nil(t, w.Session())
	assert.Empty(t, w.Messages())
	assert.Equal(t, ViewPreChat, w.View())

	// A duplicate conclusion event is a no-op
	w.handleSessionUpdate(entity.ChatSession{ID: "sess-1", Status: entity.SessionResolved})
	assert.Nil(t, w.Session())
}

func TestSessionUpdateMergesAgentAssignment(t *testing.T) {
	rt := &fakeRealtime{}
	w := newMounted(t, rt, testConfig())
	startSession(t, w)

	rt.pushSessionUpdate(entity.ChatSession{
		ID:        "sess-1",
		Status:    entity.SessionActive,
		AgentID:   "agent-7",
		AgentName: "Sam",
	})

	sess := w.Session()
	require.NotNil(t, sess)
	assert.True(t, sess.HasAgent())
	assert.Equal(t, "Sam", sess.AgentName)
}

func TestInboundSkipsOwnAndForeignMessages(t *testing.T) {
	rt := &fakeRealtime{}
	w := newMounted(t, rt, testConfig())
	startSession(t, w)

	w.handleInbound(entity.ChatMessage{ID: "x", SessionID: "sess-1", Sender: entity.SenderVisitor})
	w.handleInbound(entity.ChatMessage{ID: "y", SessionID: "other", Sender: entity.SenderAgent})
	w.handleInbound(entity.ChatMessage{ID: "z", SessionID: "sess-1", Sender: entity.SenderAgent, Content: "hi"})

	msgs := w.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "z", msgs[0].ID)
	assert.Equal(t, entity.DeliveryConfirmed, msgs[0].Delivery)
}

func TestIdentityPersistsAcrossMounts(t *testing.T) {
	store := &memIdentity{}
	rt := &fakeRealtime{}

	first := New(rt, &fakeConfigs{conf: testConfig()}, testLogger())
	first.SetIdentityStore(store)
	first.Mount(context.Background(), MountOptions{Mode: ConfigTenant, TenantID: "tenant-1"})
	id := first.VisitorID()
	require.NotEmpty(t, id)

	second := New(rt, &fakeConfigs{conf: testConfig()}, testLogger())
	second.SetIdentityStore(store)
	second.Mount(context.Background(), MountOptions{Mode: ConfigTenant, TenantID: "tenant-1"})
	assert.Equal(t, id, second.VisitorID())
}

func TestIdentityStoreFailureDegradesToEphemeral(t *testing.T) {
	store := &memIdentity{loadErr: errors.New("storage blocked")}
	rt := &fakeRealtime{}

	w := New(rt, &fakeConfigs{conf: testConfig()}, testLogger())
	w.SetIdentityStore(store)
	w.Mount(context.Background(), MountOptions{Mode: ConfigTenant, TenantID: "tenant-1"})
	assert.NotEmpty(t, w.VisitorID())
}

func TestMountFallsBackToDefaultConfig(t *testing.T) {
	rt := &fakeRealtime{}
	w := New(rt, &fakeConfigs{err: errors.New("store down")}, testLogger())
	w.Mount(context.Background(), MountOptions{Mode: ConfigGlobal})

	conf := w.Config()
	require.NotNil(t, conf)
	assert.Equal(t, entity.DefaultPrimaryColor, conf.PrimaryColor)
	assert.Equal(t, entity.DefaultLauncherText, conf.LauncherText)
}

func TestFrameAnnouncements(t *testing.T) {
	rt := &fakeRealtime{}
	frame := &fakeFrame{}
	w := New(rt, &fakeConfigs{conf: testConfig()}, testLogger())
	w.SetFrameSink(frame)

	w.Mount(context.Background(), MountOptions{Mode: ConfigTenant, TenantID: "tenant-1"})
	w.Open()
	w.Open() // duplicate, no second announcement
	w.Close()

	assert.Equal(t, []string{FrameWidgetReady, FrameWidgetOpen, FrameWidgetClose}, frame.types())
}

func TestValidatePreChat(t *testing.T) {
	conf := testConfig()
	conf.RequireName = true
	conf.RequireEmail = true

	rt := &fakeRealtime{}
	w := newMounted(t, rt, conf)

	require.Error(t, w.ValidatePreChat("", "ada@example.com"))
	require.Error(t, w.ValidatePreChat("Ada", ""))
	require.Error(t, w.ValidatePreChat("Ada", "not-an-email"))
	require.NoError(t, w.ValidatePreChat("Ada", "ada@example.com"))
}

func TestValidatePreChatOptionalFields(t *testing.T) {
	rt := &fakeRealtime{}
	w := newMounted(t, rt, testConfig())

	require.NoError(t, w.ValidatePreChat("", ""))
	// A provided email must still be well formed
	require.Error(t, w.ValidatePreChat("", "broken@"))
}

func TestUnmountReleasesSubscription(t *testing.T) {
	rt := &fakeRealtime{}
	w := newMounted(t, rt, testConfig())
	startSession(t, w)

	w.Unmount(context.Background())
	assert.Equal(t, StatusDisconnected, w.ConnectionStatus())

	rt.mu.Lock()
	defer rt.mu.Unlock()
	assert.NotEmpty(t, rt.unsubscribed)
	assert.Nil(t, rt.onMessage)
}

func TestInstancesAreIsolated(t *testing.T) {
	rtA := &fakeRealtime{session: &entity.ChatSession{ID: "a", Status: entity.SessionActive}}
	rtB := &fakeRealtime{session: &entity.ChatSession{ID: "b", Status: entity.SessionActive}}

	a := newMounted(t, rtA, testConfig())
	b := newMounted(t, rtB, testConfig())
	startSession(t, a)
	startSession(t, b)

	require.NoError(t, a.Send(context.Background(), "only in a"))

	assert.Len(t, a.Messages(), 1)
	assert.Empty(t, b.Messages())
}
