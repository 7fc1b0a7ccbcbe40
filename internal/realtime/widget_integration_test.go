package realtime

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NovaChat/entity"
	"NovaChat/widget"
)

type staticConfigs struct {
	conf *entity.WidgetConfig
}

func (c staticConfigs) GetGlobalConfig(context.Context) (*entity.WidgetConfig, error) {
	return c.conf, nil
}

func (c staticConfigs) GetConfig(context.Context, string) (*entity.WidgetConfig, error) {
	return c.conf, nil
}

func (c staticConfigs) GetConfigByOrigin(context.Context, string) (*entity.WidgetConfig, error) {
	return c.conf, nil
}

func mountedWidget(t *testing.T, svc *Service) *widget.Widget {
	t.Helper()

	conf := entity.DefaultWidgetConfig()
	conf.TenantID = "tenant-1"

	w := widget.New(svc, staticConfigs{conf: conf}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	w.Mount(context.Background(), widget.MountOptions{
		Mode:     widget.ConfigTenant,
		TenantID: conf.TenantID,
	})
	require.NoError(t, w.StartSession(context.Background(), "Ada", "ada@example.com"))
	require.Equal(t, widget.StatusConnected, w.ConnectionStatus())
	return w
}

func TestWidgetReceivesMessagesFromService(t *testing.T) {
	svc, _ := newTestService()
	w := mountedWidget(t, svc)
	sess := w.Session()
	require.NotNil(t, sess)

	require.NoError(t, svc.SendMessage(context.Background(), entity.ChatMessage{
		SessionID:  sess.ID,
		Content:    "hello from the desk",
		Sender:     entity.SenderAgent,
		SenderName: "Sam",
	}))

	msgs := w.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello from the desk", msgs[0].Content)
	assert.Equal(t, entity.DeliveryConfirmed, msgs[0].Delivery)
}

// A server-side conclusion fans out to the widget, whose reaction is to tear
// down and unsubscribe. That re-entrant unsubscribe must not block the
// conclusion call itself.
func TestServerSideConclusionTearsWidgetDown(t *testing.T) {
	svc, _ := newTestService()
	w := mountedWidget(t, svc)
	sess := w.Session()
	require.NotNil(t, sess)

	done := make(chan error, 1)
	go func() {
		done <- svc.EndSession(context.Background(), sess.ID)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("EndSession did not return; conclusion fanout is blocked")
	}

	assert.Nil(t, w.Session())
	assert.Empty(t, w.Messages())
	assert.Equal(t, widget.ViewPreChat, w.View())
	assert.Equal(t, widget.StatusDisconnected, w.ConnectionStatus())

	// Nothing is delivered to the torn-down widget
	require.NoError(t, svc.SendMessage(context.Background(), entity.ChatMessage{
		SessionID: sess.ID,
		Content:   "after the end",
		Sender:    entity.SenderAgent,
	}))
	assert.Empty(t, w.Messages())

	// The service stays fully operational afterwards
	again, err := svc.FindOrCreateSession(context.Background(), "Ada", "", "v-next", "tenant-1")
	require.NoError(t, err)
	key, err := svc.SubscribeToSession(again.ID, nil, nil)
	require.NoError(t, err)
	svc.Unsubscribe(key)
}

func TestJanitorExpiryTearsWidgetDown(t *testing.T) {
	svc, store := newTestService()
	w := mountedWidget(t, svc)
	sess := w.Session()
	require.NotNil(t, sess)

	store.mu.Lock()
	store.sessions[sess.ID].UpdatedAt = time.Now().Add(-48 * time.Hour)
	store.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	go svc.RunJanitor(ctx, 10*time.Millisecond, 24*time.Hour)
	defer cancel()

	require.Eventually(t, func() bool {
		return w.Session() == nil
	}, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, widget.ViewPreChat, w.View())
}
