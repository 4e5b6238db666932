package sessionapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/avandorp/ticktick-mcp/internal/apierr"
)

func signonOK(w http.ResponseWriter) {
	_ = json.NewEncoder(w).Encode(SignonResponse{
		Token:    "session-token",
		UserID:   "u1",
		Username: "alice@example.com",
		InboxID:  "inbox-u1",
	})
}

// newLoggedInClient builds a client against a test server whose handler sees
// every request after the signon.
func newLoggedInClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/user/signon" {
			signonOK(w)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient("alice@example.com", "secret", "device-1", 5*time.Second,
		WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if err := c.Login(context.Background()); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return c
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient("", "", "", time.Second)
	if !errors.Is(err, apierr.ErrConfig) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestLoginStoresTokenAndInbox(t *testing.T) {
	var gotDevice string
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/signon" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotDevice = r.Header.Get("X-Device")
		gotQuery = r.URL.RawQuery
		var in signonRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decode signon: %v", err)
		}
		if in.Username != "alice@example.com" || in.Password != "secret" {
			t.Errorf("unexpected credentials %q/%q", in.Username, in.Password)
		}
		signonOK(w)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient("alice@example.com", "secret", "device-1", time.Second, WithBaseURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	if c.LoggedIn() {
		t.Error("client should not report a session before login")
	}
	if err := c.Login(context.Background()); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !c.LoggedIn() {
		t.Error("client should report a session after login")
	}
	if c.InboxID() != "inbox-u1" {
		t.Errorf("expected inbox id from signon, got %q", c.InboxID())
	}
	if !strings.Contains(gotQuery, "wc=true") || !strings.Contains(gotQuery, "remember=true") {
		t.Errorf("signon query missing flags: %q", gotQuery)
	}
	if !strings.Contains(gotDevice, "device-1") {
		t.Errorf("X-Device header missing device id: %q", gotDevice)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(apiError{ErrorCode: "username_password_not_match", ErrorMessage: "bad credentials"})
	}))
	t.Cleanup(srv.Close)

	c, _ := NewClient("alice@example.com", "wrong", "", time.Second, WithBaseURL(srv.URL))
	err := c.Login(context.Background())
	if !errors.Is(err, apierr.ErrAuth) {
		t.Errorf("expected authentication error, got %v", err)
	}
	if errors.Is(err, apierr.ErrTwoFactorRequired) {
		t.Error("bad credentials must not look like a two-factor challenge")
	}
}

func TestLoginTwoFactorRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(apiError{ErrorCode: "need_verification_code", ErrorMessage: "two-factor code required"})
	}))
	t.Cleanup(srv.Close)

	c, _ := NewClient("alice@example.com", "secret", "", time.Second, WithBaseURL(srv.URL))
	err := c.Login(context.Background())
	if !errors.Is(err, apierr.ErrTwoFactorRequired) {
		t.Errorf("expected two-factor error, got %v", err)
	}
	if !errors.Is(err, apierr.ErrAuth) {
		t.Errorf("two-factor error should classify as authentication, got %v", err)
	}
}

func TestRequestsRequireSession(t *testing.T) {
	c, err := NewClient("alice@example.com", "secret", "", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Sync(context.Background())
	if !errors.Is(err, apierr.ErrAuth) {
		t.Errorf("expected authentication error before login, got %v", err)
	}
}

func TestSyncSendsSessionCredentials(t *testing.T) {
	c := newLoggedInClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/batch/check/0" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer session-token" {
			t.Errorf("unexpected auth header %q", auth)
		}
		cookie, err := r.Cookie("t")
		if err != nil || cookie.Value != "session-token" {
			t.Errorf("expected session cookie, got %v (%v)", cookie, err)
		}
		_ = json.NewEncoder(w).Encode(SyncResponse{
			InboxID:         "inbox-u1",
			ProjectProfiles: []ProjectProfile{{ID: "p1", Name: "Work"}},
			Tags:            []Tag{{Name: "errand", Label: "Errand"}},
			SyncTaskBean: SyncTaskBean{Update: []Task{
				{ID: "t1", ProjectID: "p1", Title: "one", Tags: []string{"errand"}},
			}},
		})
	})

	snap, err := c.Sync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.InboxID != "inbox-u1" {
		t.Errorf("unexpected inbox id %q", snap.InboxID)
	}
	if len(snap.SyncTaskBean.Update) != 1 || snap.SyncTaskBean.Update[0].Tags[0] != "errand" {
		t.Errorf("task tags not carried through: %+v", snap.SyncTaskBean)
	}
}

func TestSyncKeepsSignonInboxID(t *testing.T) {
	c := newLoggedInClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/batch/check/0":
			_ = json.NewEncoder(w).Encode(SyncResponse{InboxID: "inbox-other"})
		case "/user/status":
			_ = json.NewEncoder(w).Encode(UserStatus{UserID: "u1", InboxID: "inbox-other"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	// Readers and syncers run together; the race detector flags any write to
	// the inbox id after login.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := c.Sync(context.Background()); err != nil {
				t.Errorf("sync: %v", err)
			}
			if _, err := c.GetStatus(context.Background()); err != nil {
				t.Errorf("status: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := c.InboxID(); got != "inbox-u1" {
					t.Errorf("inbox id changed after login: %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()

	if c.InboxID() != "inbox-u1" {
		t.Errorf("inbox id must stay as learned at signon, got %q", c.InboxID())
	}
}

func TestFullSyncReturnsRawDocument(t *testing.T) {
	c := newLoggedInClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"inboxId":"inbox-u1","undocumentedField":42}`))
	})

	raw, err := c.FullSync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("raw document not valid JSON: %v", err)
	}
	if doc["undocumentedField"] != float64(42) {
		t.Error("raw document must keep fields the typed model drops")
	}
}

func TestCreateTagBatchBody(t *testing.T) {
	c := newLoggedInClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/batch/tag" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var in batchTagRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decode batch: %v", err)
		}
		if len(in.Add) != 1 || in.Add[0].Name != "errand" {
			t.Errorf("unexpected batch payload %+v", in)
		}
		_ = json.NewEncoder(w).Encode(BatchResponse{ID2Etag: map[string]string{"errand": "e1"}})
	})

	if err := c.CreateTag(context.Background(), Tag{Name: "errand", Label: "Errand"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBatchItemErrorSurfaced(t *testing.T) {
	c := newLoggedInClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(BatchResponse{ID2Error: map[string]string{"errand": "EXISTED"}})
	})

	err := c.CreateTag(context.Background(), Tag{Name: "errand"})
	if !errors.Is(err, apierr.ErrValidation) {
		t.Errorf("expected validation error for EXISTED, got %v", err)
	}
}

func TestRenameAndMergeTag(t *testing.T) {
	var bodies []tagRename
	var paths []string
	c := newLoggedInClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("unexpected method %s", r.Method)
		}
		paths = append(paths, r.URL.Path)
		var in tagRename
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decode rename: %v", err)
		}
		bodies = append(bodies, in)
		w.WriteHeader(http.StatusOK)
	})

	if err := c.RenameTag(context.Background(), "old", "new"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := c.MergeTag(context.Background(), "source", "target"); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if paths[0] != "/tag/rename" || paths[1] != "/tag/merge" {
		t.Errorf("unexpected paths %v", paths)
	}
	if bodies[0] != (tagRename{Name: "old", NewName: "new"}) {
		t.Errorf("unexpected rename body %+v", bodies[0])
	}
	if bodies[1] != (tagRename{Name: "source", NewName: "target"}) {
		t.Errorf("unexpected merge body %+v", bodies[1])
	}
}

func TestDeleteTagEscapesName(t *testing.T) {
	var gotQuery string
	c := newLoggedInClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tag" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	})

	if err := c.DeleteTag(context.Background(), "home office"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "name=home+office" {
		t.Errorf("tag name not escaped: %q", gotQuery)
	}
}

func TestMoveTaskPayload(t *testing.T) {
	c := newLoggedInClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/batch/taskProject" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var in []taskProjectMove
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decode move: %v", err)
		}
		want := taskProjectMove{FromProjectID: "p1", ToProjectID: "p2", TaskID: "t1"}
		if len(in) != 1 || in[0] != want {
			t.Errorf("unexpected move payload %+v", in)
		}
		_ = json.NewEncoder(w).Encode(BatchResponse{})
	})

	if err := c.MoveTask(context.Background(), "t1", "p1", "p2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetAndUnsetTaskParent(t *testing.T) {
	var rawBodies []string
	c := newLoggedInClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/batch/taskParent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		data, _ := io.ReadAll(r.Body)
		rawBodies = append(rawBodies, string(data))
		_ = json.NewEncoder(w).Encode(BatchResponse{})
	})

	if err := c.SetTaskParent(context.Background(), "child", "parent", "p1"); err != nil {
		t.Fatalf("set parent: %v", err)
	}
	if err := c.UnsetTaskParent(context.Background(), "child", "parent", "p1"); err != nil {
		t.Fatalf("unset parent: %v", err)
	}
	if !strings.Contains(rawBodies[0], `"parentId":"parent"`) {
		t.Errorf("set payload missing parentId: %s", rawBodies[0])
	}
	if !strings.Contains(rawBodies[1], `"oldParentId":"parent"`) {
		t.Errorf("unset payload missing oldParentId: %s", rawBodies[1])
	}
}

func TestListTrashPaginates(t *testing.T) {
	var starts []string
	c := newLoggedInClient(t, func(w http.ResponseWriter, r *http.Request) {
		starts = append(starts, r.URL.Query().Get("start"))
		switch r.URL.Query().Get("start") {
		case "0":
			_ = json.NewEncoder(w).Encode(TrashPage{Tasks: []Task{{ID: "t1", Deleted: 1}}, Next: 37})
		default:
			_ = json.NewEncoder(w).Encode(TrashPage{Tasks: []Task{{ID: "t2", Deleted: 1}}})
		}
	})

	tasks, err := c.ListTrash(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "t1" || tasks[1].ID != "t2" {
		t.Errorf("unexpected trash contents %+v", tasks)
	}
	if len(starts) != 2 || starts[1] != "37" {
		t.Errorf("pagination cursor not followed: %v", starts)
	}
}

func TestUserReads(t *testing.T) {
	c := newLoggedInClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/profile":
			_ = json.NewEncoder(w).Encode(UserProfile{Username: "alice@example.com", Name: "Alice"})
		case "/user/status":
			_ = json.NewEncoder(w).Encode(UserStatus{UserID: "u1", InboxID: "inbox-u1", Pro: true})
		case "/statistics/general":
			_ = json.NewEncoder(w).Encode(Statistics{Score: 7200, Level: 6, TodayCompleted: 4})
		case "/pomodoros/statistics/generalForDesktop":
			_ = json.NewEncoder(w).Encode(FocusSummary{TodayPomoCount: 3, TodayPomoDuration: 75})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	ctx := context.Background()
	profile, err := c.GetProfile(ctx)
	if err != nil || profile.Name != "Alice" {
		t.Errorf("profile: %+v, %v", profile, err)
	}
	status, err := c.GetStatus(ctx)
	if err != nil || status.InboxID != "inbox-u1" || !status.Pro {
		t.Errorf("status: %+v, %v", status, err)
	}
	stats, err := c.GetStatistics(ctx)
	if err != nil || stats.Score != 7200 {
		t.Errorf("statistics: %+v, %v", stats, err)
	}
	focus, err := c.GetFocusSummary(ctx)
	if err != nil || focus.TodayPomoDuration != 75 {
		t.Errorf("focus: %+v, %v", focus, err)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	var signoutCalled bool
	c := newLoggedInClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/user/signout" {
			signoutCalled = true
			w.WriteHeader(http.StatusOK)
			return
		}
		t.Errorf("unexpected path %s", r.URL.Path)
	})

	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !signoutCalled {
		t.Error("expected signout request")
	}
	if c.LoggedIn() {
		t.Error("session should be cleared after logout")
	}
	// Second logout is a no-op.
	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("idempotent logout failed: %v", err)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"unauthorized", http.StatusUnauthorized, apierr.ErrAuth},
		{"forbidden", http.StatusForbidden, apierr.ErrForbidden},
		{"not_found", http.StatusNotFound, apierr.ErrNotFound},
		{"rate_limited", http.StatusTooManyRequests, apierr.ErrRateLimit},
		{"server_error", http.StatusBadGateway, apierr.ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newLoggedInClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(apiError{ErrorCode: "test", ErrorMessage: "nope"})
			})

			_, err := c.Sync(context.Background())
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("status %d: wrong classification: %v", tt.status, err)
			}
		})
	}
}

func TestNewObjectID(t *testing.T) {
	a, b := NewObjectID(), NewObjectID()
	if len(a) != 24 {
		t.Errorf("expected 24 hex chars, got %d (%q)", len(a), a)
	}
	if a == b {
		t.Error("object ids must be unique")
	}
	for _, r := range a {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Errorf("non-hex rune %q in %q", r, a)
		}
	}
}
