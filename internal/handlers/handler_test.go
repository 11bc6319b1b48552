// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"recree/internal/httputil"
	"recree/internal/middleware"
	"recree/internal/models"
	"recree/internal/service"
	"recree/internal/session"
	"recree/internal/store/memstore"
)

// fakeUsers is an in-memory UserRepository.
type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUsers) add(t *testing.T, email, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &models.User{ID: uuid.New(), Email: email, PasswordHash: string(hash), DisplayName: email, Role: role}
	f.mu.Lock()
	f.users[u.ID] = u
	f.mu.Unlock()
	return u
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) SetTOTPSecret(_ context.Context, id uuid.UUID, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].TOTPSecret = &secret
	return nil
}

func (f *fakeUsers) EnableTOTP(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].TOTPEnabled = true
	return nil
}

func (f *fakeUsers) ResetTOTP(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].TOTPSecret = nil
	f.users[id].TOTPEnabled = false
	return nil
}

func (f *fakeUsers) CheckPassword(u *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// taxonomyServer mounts the admin and public taxonomy routes over
// memstore-backed services, with an already verified admin session.
type taxonomyServer struct {
	router http.Handler
	topics *service.TopicService
	tags   *service.TagService
}

func newTaxonomyServer() *taxonomyServer {
	topicSvc := service.NewTopicService(memstore.NewTopicStore(), nil)
	tagSvc := service.NewTagService(memstore.NewTagStore(), nil)
	topicH := NewTopics(topicSvc)
	tagH := NewTags(tagSvc)
	pub := NewPublic(topicSvc, tagSvc)

	r := chi.NewRouter()
	r.Get("/api/topics", pub.Topics)
	r.Get("/api/topics/{slug}", pub.Topic)
	r.Get("/api/tags", pub.Tags)
	r.Route("/admin/api", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				sess := &session.Data{UserID: uuid.New(), Role: "admin", TwoFADone: true}
				next.ServeHTTP(w, req.WithContext(middleware.WithSession(req.Context(), sess)))
			})
		})
		r.Get("/topics", topicH.List)
		r.Get("/topics/styles", topicH.Styles)
		r.Post("/topics", topicH.Create)
		r.Post("/topics/reorder", topicH.Reorder)
		r.Get("/topics/{id}", topicH.Get)
		r.Put("/topics/{id}", topicH.Update)
		r.Delete("/topics/{id}", topicH.Delete)
		r.Get("/tags", tagH.List)
		r.Get("/tags/groups", tagH.Groups)
		r.Post("/tags", tagH.Create)
		r.Post("/tags/reorder", tagH.Reorder)
		r.Get("/tags/{id}", tagH.Get)
		r.Put("/tags/{id}", tagH.Update)
		r.Delete("/tags/{id}", tagH.Delete)
	})
	return &taxonomyServer{router: r, topics: topicSvc, tags: tagSvc}
}

func (s *taxonomyServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, s.router, method, path, body)
}

func serve(t *testing.T, h http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// decodeData unwraps the success envelope into dst.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	env := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rr.Body.String())
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var env httputil.ErrorEnvelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v (body %s)", err, rr.Body.String())
	}
	return env.Error
}
