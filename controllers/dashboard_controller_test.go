package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uwezo-ai/uwezo/middleware"
	"github.com/uwezo-ai/uwezo/models"
	"github.com/uwezo-ai/uwezo/state"
)

func newDashboardRouter(role string) (*gin.Engine, *state.Store) {
	store := state.NewStore(5*time.Second, nil)
	dc := NewDashboardController(store)

	r := gin.New()
	if role != "" {
		r.Use(func(ctx *gin.Context) { ctx.Set(middleware.ContextRoleKey, role) })
	}
	r.GET("/state", dc.GetState)
	r.PUT("/state/page", dc.SetPage)
	r.POST("/notifications", dc.AddNotification)
	r.DELETE("/notifications/:id", dc.DismissNotification)
	return r, store
}

func TestGetStateInitial(t *testing.T) {
	r, _ := newDashboardRouter(models.RoleUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/state", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var snap state.AppState
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &snap); err != nil {
		t.Fatal(err)
	}
	if snap.CurrentPage != state.PageDashboard {
		t.Errorf("current page = %s, want dashboard", snap.CurrentPage)
	}
	if snap.IsLoading {
		t.Error("loading flag set at boot")
	}
	if len(snap.UploadedFiles)+len(snap.ProcessingResults)+len(snap.Notifications) != 0 {
		t.Error("initial collections not empty")
	}
}

func TestSetPage(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		body       string
		wantStatus int
	}{
		{"known page", models.RoleUser, `{"page":"results"}`, http.StatusOK},
		{"unknown page", models.RoleUser, `{"page":"settings"}`, http.StatusBadRequest},
		{"empty payload", models.RoleUser, `{}`, http.StatusBadRequest},
		{"admin page as user", models.RoleUser, `{"page":"admin"}`, http.StatusForbidden},
		{"admin page as admin", models.RoleAdmin, `{"page":"admin"}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, store := newDashboardRouter(tt.role)
			w := putJSON(r, "/state/page", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				if got := store.Snapshot().CurrentPage; got != state.PageDashboard {
					t.Errorf("rejected navigation changed page to %s", got)
				}
			}
		})
	}
}

func TestAddAndDismissNotification(t *testing.T) {
	r, store := newDashboardRouter(models.RoleUser)

	w := postJSON(r, "/notifications", `{"type":"info","message":"Document queued"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var notif models.Notification
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &notif); err != nil {
		t.Fatal(err)
	}
	if notif.ID == "" || notif.Type != models.NotifyInfo {
		t.Errorf("notification = %+v", notif)
	}
	if got := store.Snapshot().Notifications; len(got) != 1 {
		t.Fatalf("store holds %d notifications, want 1", len(got))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/notifications/"+notif.ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("dismiss status = %d", w.Code)
	}
	if got := store.Snapshot().Notifications; len(got) != 0 {
		t.Errorf("store holds %d notifications after dismiss", len(got))
	}
}

func TestAddNotificationRejectsUnknownType(t *testing.T) {
	r, store := newDashboardRouter(models.RoleUser)
	if w := postJSON(r, "/notifications", `{"type":"warning","message":"x"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := store.Snapshot().Notifications; len(got) != 0 {
		t.Errorf("rejected notification landed in store")
	}
}
