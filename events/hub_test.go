package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestVerdictFor(t *testing.T) {
	tests := []struct {
		confidence float64
		want       string
	}{
		{0.95, VerdictApproved},
		{0.80, VerdictApproved},
		{0.799, VerdictFlagged},
		{0.50, VerdictFlagged},
		{0, VerdictFlagged},
	}
	for _, tt := range tests {
		if got := VerdictFor(tt.confidence); got != tt.want {
			t.Errorf("VerdictFor(%v) = %s, want %s", tt.confidence, got, tt.want)
		}
	}
}

func TestMessageConstructors(t *testing.T) {
	p := NewPrediction(0.92)
	if p.Event != EventNewPrediction || p.Verdict != VerdictApproved || p.Confidence != 0.92 {
		t.Errorf("prediction message = %+v", p)
	}
	r := ManualReview("jane", "looks legitimate")
	if r.Event != EventManualReview || r.Reviewer != "jane" || r.Msg != "looks legitimate" {
		t.Errorf("review message = %+v", r)
	}
	m := ModelUpdate("Model retraining started")
	if m.Event != EventModelUpdate || m.Msg != "Model retraining started" {
		t.Errorf("model message = %+v", m)
	}
}

func TestHubBroadcastReachesSubscriber(t *testing.T) {
	hub := NewHub(nil)
	stop := make(chan struct{})
	defer close(stop)
	go hub.Run(stop)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// Give the hub loop a beat to process the registration.
	time.Sleep(100 * time.Millisecond)
	hub.Broadcast(NewPrediction(0.91))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Message
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got.Event != EventNewPrediction || got.Verdict != VerdictApproved {
		t.Errorf("received %+v", got)
	}
}

func TestBroadcastWithoutSubscribersDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 128; i++ {
			hub.Broadcast(ModelUpdate("tick"))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked with no running hub")
	}
}
