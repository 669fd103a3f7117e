package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hammercms/internal/auth"
	"hammercms/internal/config"
	"hammercms/internal/model"
	"hammercms/internal/repository"
	"hammercms/internal/service"
	serviceMocks "hammercms/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	app      *fiber.App
	catalog  *serviceMocks.MockCatalogService
	insights *serviceMocks.MockInsightService
	media    *serviceMocks.MockMediaService
	contact  *serviceMocks.MockContactService
	token    string
}

func newTestEnv(t *testing.T, db *sql.DB) *testEnv {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("dashboard-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	authenticator, err := auth.New(config.AuthConfig{
		JWTSecret:     "test-secret",
		AdminEmail:    "staff@example.com",
		AdminPassHash: string(hash),
		TokenTTLMin:   60,
	})
	require.NoError(t, err)
	token, err := authenticator.Login("staff@example.com", "dashboard-pass")
	require.NoError(t, err)

	env := &testEnv{
		catalog:  new(serviceMocks.MockCatalogService),
		insights: new(serviceMocks.MockInsightService),
		media:    new(serviceMocks.MockMediaService),
		contact:  new(serviceMocks.MockContactService),
		token:    token,
	}
	env.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(env.app, Deps{
		DB:       db,
		Catalog:  env.catalog,
		Insights: env.insights,
		Media:    env.media,
		Contact:  env.contact,
		Auth:     authenticator,
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, target string, body any, authed bool) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthEndpoints(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	env := newTestEnv(t, db)

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp := env.do(t, http.MethodGet, "/health", nil, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[map[string]string](t, resp)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp := env.do(t, http.MethodGet, "/health", nil, false)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		body := decodeBody[errorPayload](t, resp)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})

	t.Run("liveness", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/healthz", nil, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestPublicServices(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("list", func(t *testing.T) {
		env.catalog.On("List", mock.Anything).
			Return([]model.Service{{ID: "svc-1", Slug: "joinery"}}, nil).Once()

		resp := env.do(t, http.MethodGet, "/services", nil, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("detail by slug", func(t *testing.T) {
		env.catalog.On("GetBySlug", mock.Anything, "joinery").
			Return(&service.ServiceDetail{
				Service: model.Service{ID: "svc-1", Slug: "joinery"},
			}, nil).Once()

		resp := env.do(t, http.MethodGet, "/services/joinery", nil, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unknown slug is 404", func(t *testing.T) {
		env.catalog.On("GetBySlug", mock.Anything, "nope").
			Return(nil, service.ErrNotFound).Once()

		resp := env.do(t, http.MethodGet, "/services/nope", nil, false)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		body := decodeBody[errorPayload](t, resp)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
	})
}

func TestPublicInsights(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("list is always published-only and filtered by division slug", func(t *testing.T) {
		env.insights.On("List", mock.Anything, service.InsightListFilter{
			ServiceSlug:   "joinery",
			PublishedOnly: true,
			Limit:         5,
			Offset:        0,
		}).Return(&service.InsightListResult{Total: 0}, nil).Once()

		resp := env.do(t, http.MethodGet, "/insights?service=joinery&limit=5", nil, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		env.insights.AssertExpectations(t)
	})

	t.Run("bad limit is 400", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/insights?limit=abc", nil, false)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("detail carries rendered html alongside blocks", func(t *testing.T) {
		env.insights.On("GetPublishedBySlug", mock.Anything, "hello").
			Return(&service.InsightDetail{
				Insight:  model.Insight{ID: "ins-1", Slug: "hello"},
				BodyHTML: `<p class="mb-4">Hello world</p>`,
			}, nil).Once()

		resp := env.do(t, http.MethodGet, "/insights/hello", nil, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[struct {
			BodyHTML string `json:"body_html"`
		}](t, resp)
		assert.Equal(t, `<p class="mb-4">Hello world</p>`, body.BodyHTML)
	})

	t.Run("draft slug is 404", func(t *testing.T) {
		env.insights.On("GetPublishedBySlug", mock.Anything, "draft-post").
			Return(nil, service.ErrNotFound).Once()

		resp := env.do(t, http.MethodGet, "/insights/draft-post", nil, false)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestPublicProjects(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("gallery filtered by division slug", func(t *testing.T) {
		env.catalog.On("ListProjects", mock.Anything, service.ProjectListFilter{
			ServiceSlug: "joinery",
			Limit:       12,
			Offset:      0,
		}).Return(&service.ProjectListResult{
			Items: []model.ProjectImage{{ID: "img-1"}},
			Total: 1,
		}, nil).Once()

		resp := env.do(t, http.MethodGet, "/projects?service=joinery&limit=12", nil, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		env.catalog.AssertExpectations(t)
	})
}

func TestContactEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("accepted", func(t *testing.T) {
		env.contact.On("Submit", mock.Anything, mock.MatchedBy(func(sub model.ContactSubmission) bool {
			return sub.Name == "Jordan" && sub.Honeypot == ""
		})).Return(nil).Once()

		resp := env.do(t, http.MethodPost, "/contact", map[string]string{
			"name":    "Jordan",
			"email":   "jordan@example.com",
			"message": "Hello",
		}, false)
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	})

	t.Run("invalid submission is 400", func(t *testing.T) {
		env.contact.On("Submit", mock.Anything, mock.Anything).
			Return(service.ErrInvalidSubmission).Once()

		resp := env.do(t, http.MethodPost, "/contact", map[string]string{"name": "x"}, false)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody[errorPayload](t, resp)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	})

	t.Run("honeypot submission is 400", func(t *testing.T) {
		env.contact.On("Submit", mock.Anything, mock.MatchedBy(func(sub model.ContactSubmission) bool {
			return sub.Honeypot != ""
		})).Return(service.ErrSpamDetected).Once()

		resp := env.do(t, http.MethodPost, "/contact", map[string]string{
			"name":    "Bot",
			"email":   "bot@spam.example",
			"message": "buy now",
			"website": "http://spam.example",
		}, false)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody[errorPayload](t, resp)
		assert.Equal(t, "SPAM_DETECTED", body.Error.Code)
	})
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("valid credentials return a token", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/auth/login", map[string]string{
			"email":    "staff@example.com",
			"password": "dashboard-pass",
		}, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[map[string]string](t, resp)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("bad credentials are 401", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/auth/login", map[string]string{
			"email":    "staff@example.com",
			"password": "wrong",
		}, false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		body := decodeBody[errorPayload](t, resp)
		assert.Equal(t, "INVALID_CREDENTIALS", body.Error.Code)
	})
}

func TestDashboardRequiresToken(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("missing token", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/dashboard/insights", nil, false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		body := decodeBody[errorPayload](t, resp)
		assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard/insights", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestDashboardInsights(t *testing.T) {
	env := newTestEnv(t, nil)
	id := uuid.New().String()

	t.Run("create", func(t *testing.T) {
		env.insights.On("Create", mock.Anything, mock.MatchedBy(func(in service.InsightInput) bool {
			return in.Title == "New Post"
		})).Return(&model.Insight{ID: id, Slug: "new-post"}, nil).Once()

		resp := env.do(t, http.MethodPost, "/dashboard/insights", map[string]any{
			"title": "New Post",
		}, true)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("import html", func(t *testing.T) {
		env.insights.On("ImportHTML", mock.Anything, mock.MatchedBy(func(in service.InsightImport) bool {
			return strings.Contains(in.HTML, "<h2>")
		})).Return(&model.Insight{ID: id}, nil).Once()

		resp := env.do(t, http.MethodPost, "/dashboard/insights/import", map[string]any{
			"title": "Legacy",
			"html":  "<h2>Intro</h2><p>Body</p>",
		}, true)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("toggle published", func(t *testing.T) {
		env.insights.On("SetPublished", mock.Anything, id, true).
			Return(&model.Insight{ID: id, Published: true}, nil).Once()

		resp := env.do(t, http.MethodPatch, "/dashboard/insights/"+id+"/published", map[string]any{
			"published": true,
		}, true)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("list includes drafts", func(t *testing.T) {
		env.insights.On("List", mock.Anything, service.InsightListFilter{
			PublishedOnly: false,
			Limit:         10,
			Offset:        0,
		}).Return(&service.InsightListResult{Total: 2}, nil).Once()

		resp := env.do(t, http.MethodGet, "/dashboard/insights", nil, true)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		env.insights.AssertExpectations(t)
	})

	t.Run("invalid id is 400", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/dashboard/insights/not-a-uuid", nil, true)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		env.insights.On("Delete", mock.Anything, id).Return(nil).Once()

		resp := env.do(t, http.MethodDelete, "/dashboard/insights/"+id, nil, true)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestDashboardServices(t *testing.T) {
	env := newTestEnv(t, nil)
	id := uuid.New().String()

	t.Run("create", func(t *testing.T) {
		env.catalog.On("Create", mock.Anything, mock.MatchedBy(func(in service.ServiceInput) bool {
			return in.Title == "Joinery"
		})).Return(&model.Service{ID: id, Slug: "joinery"}, nil).Once()

		resp := env.do(t, http.MethodPost, "/dashboard/services", map[string]any{
			"title": "Joinery",
		}, true)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("update not found", func(t *testing.T) {
		env.catalog.On("Update", mock.Anything, id, mock.Anything).
			Return(nil, service.ErrNotFound).Once()

		resp := env.do(t, http.MethodPut, "/dashboard/services/"+id, map[string]any{
			"title": "Joinery",
		}, true)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		env.catalog.On("Delete", mock.Anything, id).Return(nil).Once()

		resp := env.do(t, http.MethodDelete, "/dashboard/services/"+id, nil, true)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("get content", func(t *testing.T) {
		env.catalog.On("GetContent", mock.Anything, id).
			Return(&repository.ServiceContent{
				FAQs: []model.ServiceFAQ{{ID: "faq-1", Question: "Do you handle permits?"}},
			}, nil).Once()

		resp := env.do(t, http.MethodGet, "/dashboard/services/"+id+"/content", nil, true)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("replace content", func(t *testing.T) {
		env.catalog.On("ReplaceContent", mock.Anything, id, mock.MatchedBy(func(in service.ServiceContentInput) bool {
			return len(in.FAQs) == 1 && in.FAQs[0].Question == "Do you handle permits?"
		})).Return(&repository.ServiceContent{
			FAQs: []model.ServiceFAQ{{ID: "faq-1", Question: "Do you handle permits?", Answer: "Yes."}},
		}, nil).Once()

		resp := env.do(t, http.MethodPut, "/dashboard/services/"+id+"/content", map[string]any{
			"faqs": []map[string]any{{"question": "Do you handle permits?", "answer": "Yes."}},
		}, true)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		env.catalog.AssertExpectations(t)
	})
}

func TestDashboardMedia(t *testing.T) {
	env := newTestEnv(t, nil)
	id := uuid.New().String()

	t.Run("upload", func(t *testing.T) {
		env.media.On("Upload", mock.Anything, mock.Anything, "hero.jpg", mock.Anything, mock.Anything).
			Return(&model.MediaAsset{ID: id, URL: "https://cdn.example.com/media/x.jpg"}, nil).Once()

		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		fw, err := w.CreateFormFile("file", "hero.jpg")
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake jpeg"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/dashboard/media", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+env.token)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("upload without file is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/dashboard/media", nil)
		req.Header.Set("Authorization", "Bearer "+env.token)
		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody[errorPayload](t, resp)
		assert.Equal(t, "FILE_REQUIRED", body.Error.Code)
	})

	t.Run("delete", func(t *testing.T) {
		env.media.On("Delete", mock.Anything, id).Return(nil).Once()

		resp := env.do(t, http.MethodDelete, "/dashboard/media/"+id, nil, true)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}
