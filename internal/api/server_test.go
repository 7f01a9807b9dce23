package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/smazurov/subjectlink/internal/api/models"
	"github.com/smazurov/subjectlink/internal/config"
	"github.com/smazurov/subjectlink/internal/events"
	"github.com/smazurov/subjectlink/internal/livelink"
	"github.com/smazurov/subjectlink/internal/provider"
	"github.com/smazurov/subjectlink/internal/scene"
	"github.com/smazurov/subjectlink/internal/session"
	"github.com/smazurov/subjectlink/internal/streamobject"
)

type testEnv struct {
	server   *Server
	api      humatest.TestAPI
	session  *session.Session
	scene    *scene.Scene
	memory   *provider.Memory
	subjects *config.SubjectsManager
	bus      *events.Bus
}

func newTestEnv(t *testing.T, auth bool) *testEnv {
	t.Helper()

	sc, _ := scene.Default()
	if err := sc.UpsertModel(scene.Model{Name: "Prop", Local: livelink.IdentityTransform}); err != nil {
		t.Fatal(err)
	}
	memory := provider.NewMemory()
	bus := events.New()
	sess := session.New(session.Config{
		Factory: &streamobject.Factory{Provider: memory, Scene: sc},
		Bus:     bus,
	})
	subjects := config.NewSubjectsManager(filepath.Join(t.TempDir(), "subjects.toml"))

	if _, err := sess.Sync(subjects.Specs()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	opts := &Options{
		Session:  sess,
		Scene:    sc,
		Subjects: subjects,
		Memory:   memory,
		EventBus: bus,
		PrometheusHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("subjectlink_active_subjects 1\n"))
		}),
	}
	if auth {
		opts.AuthUsername = "test"
		opts.AuthPassword = "secret"
	}
	server := NewServer(opts)

	return &testEnv{
		server:   server,
		api:      humatest.Wrap(t, server.GetAPI()),
		session:  sess,
		scene:    sc,
		memory:   memory,
		subjects: subjects,
		bus:      bus,
	}
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode %q: %v", resp.Body.String(), err)
	}
	return out
}

func TestHealthAndVersion(t *testing.T) {
	env := newTestEnv(t, true)

	resp := env.api.Get("/api/health")
	if resp.Code != http.StatusOK {
		t.Fatalf("health status = %d, body %s", resp.Code, resp.Body.String())
	}
	health := decode[models.HealthData](t, resp)
	if health.Status != "ok" || health.Subjects != 1 {
		t.Errorf("health = %+v, want ok with 1 subject", health)
	}

	resp = env.api.Get("/api/version")
	if resp.Code != http.StatusOK {
		t.Fatalf("version status = %d", resp.Code)
	}
	if v := decode[models.VersionData](t, resp); v.GoVersion == "" {
		t.Error("expected go_version in version response")
	}
}

func TestBasicAuth(t *testing.T) {
	env := newTestEnv(t, true)
	good := base64.StdEncoding.EncodeToString([]byte("test:secret"))
	bad := base64.StdEncoding.EncodeToString([]byte("test:wrong"))

	tests := []struct {
		name string
		path string
		args []any
		want int
	}{
		{"no credentials", "/api/subjects", nil, http.StatusUnauthorized},
		{"wrong password", "/api/subjects", []any{"Authorization: Basic " + bad}, http.StatusUnauthorized},
		{"bearer token", "/api/subjects", []any{"Authorization: Bearer abc"}, http.StatusUnauthorized},
		{"header credentials", "/api/subjects", []any{"Authorization: Basic " + good}, http.StatusOK},
		{"query credentials", "/api/subjects?auth=" + good, nil, http.StatusOK},
		{"public health", "/api/health", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.api.Get(tt.path, tt.args...)
			if resp.Code != tt.want {
				t.Errorf("status = %d, want %d", resp.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && resp.Header().Get("WWW-Authenticate") == "" {
				t.Error("expected WWW-Authenticate header")
			}
		})
	}
}

func TestListSubjectsIncludesProviderState(t *testing.T) {
	env := newTestEnv(t, false)
	if err := env.session.Tick(); err != nil {
		t.Fatal(err)
	}

	resp := env.api.Get("/api/subjects")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}
	list := decode[models.SubjectListData](t, resp)
	if list.Count != 1 || len(list.Subjects) != 1 {
		t.Fatalf("list = %+v, want one subject", list)
	}

	got := list.Subjects[0]
	if got.Name != string(streamobject.ActiveCameraSubject) || got.Kind != string(streamobject.KindActiveCamera) {
		t.Errorf("subject = %s/%s, want active camera", got.Name, got.Kind)
	}
	if !got.Managed || !got.Active || got.ShowInUI {
		t.Errorf("subject flags = managed %v active %v show %v", got.Managed, got.Active, got.ShowInUI)
	}
	if got.Role != string(livelink.RoleCamera) || got.StaticPushes != 1 || got.FramePushes != 1 {
		t.Errorf("provider state = role %q static %d frames %d", got.Role, got.StaticPushes, got.FramePushes)
	}
	if got.LastFrame == nil || got.LastFrame.Camera == nil {
		t.Fatal("expected last camera frame")
	}
}

func TestGetSubjectNotFound(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.api.Get("/api/subjects/Nope")
	if resp.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.Code)
	}
}

func TestCreateSubject(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.api.Post("/api/subjects", map[string]any{
		"kind":   "camera",
		"name":   "Hero",
		"target": "Witness",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}
	created := decode[models.SubjectData](t, resp)
	if created.Name != "Hero" || created.Target != "Witness" || !created.Managed {
		t.Errorf("created = %+v", created)
	}

	if _, ok := env.memory.Subject("Hero"); !ok {
		t.Error("expected Hero registered with the provider")
	}

	// Persisted to the subjects file
	reloaded := config.NewSubjectsManager(env.subjects.Path())
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	var found bool
	for _, spec := range reloaded.Specs() {
		if spec.SubjectName() == "Hero" && spec.Kind == streamobject.KindCamera && spec.Target == "Witness" {
			found = true
		}
	}
	if !found {
		t.Errorf("Hero not saved, specs = %+v", reloaded.Specs())
	}

	resp = env.api.Post("/api/subjects", map[string]any{
		"kind":   "model",
		"name":   "Hero",
		"target": "Prop",
	})
	if resp.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", resp.Code)
	}
}

func TestCreateSubjectRejectsInvalid(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing target", map[string]any{"kind": "camera"}, http.StatusBadRequest},
		{"unknown kind", map[string]any{"kind": "light", "target": "Sun"}, http.StatusUnprocessableEntity},
		{"unsupported mode", map[string]any{"kind": "model", "target": "Prop", "mode": 7}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.api.Post("/api/subjects", tt.body)
			if resp.Code != tt.want {
				t.Errorf("status = %d, want %d, body %s", resp.Code, tt.want, resp.Body.String())
			}
		})
	}
}

func TestUpdateSubject(t *testing.T) {
	env := newTestEnv(t, false)
	if resp := env.api.Post("/api/subjects", map[string]any{"kind": "model", "target": "Prop"}); resp.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", resp.Code, resp.Body.String())
	}

	resp := env.api.Patch("/api/subjects/Prop", map[string]any{
		"name":            "Crate",
		"mode":            1,
		"send_animatable": true,
		"active":          false,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}
	got := decode[models.SubjectData](t, resp)
	if got.Name != "Crate" || got.Mode != 1 || !got.SendAnimatable || got.Active {
		t.Errorf("updated = %+v", got)
	}

	if _, ok := env.memory.Subject("Prop"); ok {
		t.Error("old subject name still registered")
	}

	reloaded := config.NewSubjectsManager(env.subjects.Path())
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	for _, spec := range reloaded.Specs() {
		if spec.Target == "Prop" {
			if spec.SubjectName() != "Crate" || spec.Mode != 1 || spec.IsActive() {
				t.Errorf("saved spec = %+v", spec)
			}
		}
	}

	if resp := env.api.Patch("/api/subjects/Prop", map[string]any{"active": true}); resp.Code != http.StatusNotFound {
		t.Errorf("patch of old name status = %d, want 404", resp.Code)
	}
}

func TestUpdateSubjectRejectedModeKeepsName(t *testing.T) {
	env := newTestEnv(t, false)
	if resp := env.api.Post("/api/subjects", map[string]any{"kind": "camera", "target": "Witness"}); resp.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", resp.Code, resp.Body.String())
	}

	resp := env.api.Patch("/api/subjects/Witness", map[string]any{"name": "Renamed", "mode": 9})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", resp.Code, resp.Body.String())
	}

	if resp := env.api.Get("/api/subjects/Witness"); resp.Code != http.StatusOK {
		t.Errorf("get Witness status = %d, want 200", resp.Code)
	}
	if resp := env.api.Get("/api/subjects/Renamed"); resp.Code != http.StatusNotFound {
		t.Errorf("get Renamed status = %d, want 404", resp.Code)
	}
	if _, ok := env.memory.Subject("Renamed"); ok {
		t.Error("provider received the rejected name")
	}

	reloaded := config.NewSubjectsManager(env.subjects.Path())
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	for _, spec := range reloaded.Specs() {
		if spec.Target == "Witness" && (spec.SubjectName() != "Witness" || spec.Mode != 0) {
			t.Errorf("saved spec = %+v", spec)
		}
	}
}

func TestUpdateActiveCameraKeepsFixedProperties(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.api.Patch("/api/subjects/EditorActiveCamera", map[string]any{
		"name":            "Other",
		"mode":            1,
		"send_animatable": true,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}
	got := decode[models.SubjectData](t, resp)
	if got.Name != "EditorActiveCamera" || got.Mode != 0 || got.SendAnimatable {
		t.Errorf("active camera changed: %+v", got)
	}
}

func TestDeleteSubject(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.api.Delete("/api/subjects/EditorActiveCamera")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}
	if len(env.session.List()) != 0 {
		t.Error("session still holds the subject")
	}
	if env.memory.Removed() != 1 {
		t.Errorf("provider removals = %d, want 1", env.memory.Removed())
	}

	reloaded := config.NewSubjectsManager(env.subjects.Path())
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}
	if specs := reloaded.Specs(); len(specs) != 0 {
		t.Errorf("saved specs = %+v, want none", specs)
	}

	if resp := env.api.Delete("/api/subjects/EditorActiveCamera"); resp.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.Code)
	}
}

func TestSceneCameras(t *testing.T) {
	env := newTestEnv(t, false)
	changed := make(chan events.CameraChangedEvent, 1)
	unsub := env.bus.Subscribe(func(e events.CameraChangedEvent) { changed <- e })
	defer unsub()

	resp := env.api.Get("/api/scene/cameras")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	list := decode[models.CameraListData](t, resp)
	if list.Count != 2 || list.Current != "Producer Perspective" {
		t.Errorf("cameras = %+v", list)
	}

	resp = env.api.Put("/api/scene/current-camera", map[string]any{"camera": "Witness"})
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}
	if cam := decode[models.CameraData](t, resp); !cam.Current || cam.Name != "Witness" {
		t.Errorf("current camera = %+v", cam)
	}
	if env.scene.CurrentCameraName() != "Witness" {
		t.Errorf("scene current = %q", env.scene.CurrentCameraName())
	}

	// The active camera subject follows the viewport on the next tick
	if err := env.session.Tick(); err != nil {
		t.Fatal(err)
	}
	subject, ok := env.memory.Subject(streamobject.ActiveCameraSubject)
	if !ok || subject.LastFrame == nil {
		t.Fatal("expected an active camera frame")
	}
	if subject.LastFrame.Transform.Location.X != -400 {
		t.Errorf("frame location = %+v, want Witness location", subject.LastFrame.Transform.Location)
	}

	if resp := env.api.Put("/api/scene/current-camera", map[string]any{"camera": "Nope"}); resp.Code != http.StatusNotFound {
		t.Errorf("unknown camera status = %d, want 404", resp.Code)
	}

	select {
	case e := <-changed:
		if e.Camera != "Witness" {
			t.Errorf("event camera = %q", e.Camera)
		}
	case <-time.After(time.Second):
		t.Error("no camera-changed event published")
	}
}

func TestLogLevels(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.api.Put("/api/logs/levels", map[string]any{"module": "api-test", "level": "debug"})
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}
	if levels := decode[models.LogLevelsData](t, resp); levels.Levels["api-test"] != "debug" {
		t.Errorf("levels = %+v", levels.Levels)
	}

	if resp := env.api.Put("/api/logs/levels", map[string]any{"level": "loud"}); resp.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid level status = %d, want 422", resp.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, true)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	env.server.GetMux().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "subjectlink_active_subjects") {
		t.Errorf("unexpected metrics body %q", w.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, true)

	req := httptest.NewRequest(http.MethodOptions, "/api/subjects", nil)
	w := httptest.NewRecorder()
	env.server.GetMux().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS origin header")
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Last-Event-ID") {
		t.Errorf("allow headers = %q, want Last-Event-ID", w.Header().Get("Access-Control-Allow-Headers"))
	}
	if !strings.Contains(w.Header().Get("Access-Control-Expose-Headers"), "WWW-Authenticate") {
		t.Errorf("expose headers = %q", w.Header().Get("Access-Control-Expose-Headers"))
	}
}
