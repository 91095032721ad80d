package credential_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-gatepass/internal/credential"
	credentialerrors "go-gatepass/internal/credential/errors"
	"go-gatepass/internal/shared/apperror"
	"go-gatepass/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeCredentialService struct {
	CreateFn     func(ctx context.Context, req credential.CreateCredentialRequest) (credential.CredentialResponse, error)
	GetAllFn     func(ctx context.Context, kind string) ([]credential.CredentialResponse, error)
	GetByIDFn    func(ctx context.Context, id string) (credential.CredentialResponse, error)
	UpdateFn     func(ctx context.Context, id string, req credential.UpdateCredentialRequest) (credential.CredentialResponse, error)
	DeactivateFn func(ctx context.Context, id string) (credential.CredentialResponse, error)
	SearchFn     func(ctx context.Context, kind, query string, field credential.SearchField) ([]credential.CredentialResponse, error)
	StatsFn      func(ctx context.Context) (credential.StatsResponse, error)
}

func (f *fakeCredentialService) Create(ctx context.Context, req credential.CreateCredentialRequest) (credential.CredentialResponse, error) {
	return f.CreateFn(ctx, req)
}

func (f *fakeCredentialService) GetAll(ctx context.Context, kind string) ([]credential.CredentialResponse, error) {
	return f.GetAllFn(ctx, kind)
}

func (f *fakeCredentialService) GetByID(ctx context.Context, id string) (credential.CredentialResponse, error) {
	return f.GetByIDFn(ctx, id)
}

func (f *fakeCredentialService) Update(ctx context.Context, id string, req credential.UpdateCredentialRequest) (credential.CredentialResponse, error) {
	return f.UpdateFn(ctx, id, req)
}

func (f *fakeCredentialService) Deactivate(ctx context.Context, id string) (credential.CredentialResponse, error) {
	return f.DeactivateFn(ctx, id)
}

func (f *fakeCredentialService) Search(ctx context.Context, kind, query string, field credential.SearchField) ([]credential.CredentialResponse, error) {
	return f.SearchFn(ctx, kind, query, field)
}

func (f *fakeCredentialService) Stats(ctx context.Context) (credential.StatsResponse, error) {
	return f.StatsFn(ctx)
}

func setupHandlerTest(svc credential.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := credential.NewHandler(svc)

	r := gin.New()
	r.POST("/credentials", h.Create)
	r.GET("/credentials", h.GetAll)
	r.GET("/credentials/search", h.Search)
	r.GET("/credentials/stats", h.Stats)
	r.GET("/credentials/:id", h.GetById)
	r.PUT("/credentials/:id", h.Update)
	r.POST("/credentials/:id/deactivate", h.Deactivate)
	return r
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.ApiEnvelope {
	t.Helper()
	var env response.ApiEnvelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestCredentialHandler_Create(t *testing.T) {
	t.Run("201 with the issued record", func(t *testing.T) {
		svc := &fakeCredentialService{
			CreateFn: func(ctx context.Context, req credential.CreateCredentialRequest) (credential.CredentialResponse, error) {
				assert.Equal(t, credential.KindEmployee, req.Kind)
				return credential.CredentialResponse{
					ID:     "EMP-000001",
					Kind:   credential.KindEmployee,
					Status: string(credential.StatusActive),
				}, nil
			},
		}
		r := setupHandlerTest(svc)

		body := `{
			"kind": "employee",
			"subject_name": "John Doe",
			"company": "Acme",
			"contact_phone": "555-0100",
			"identity_number": "123",
			"expiry_date": "2027-06-30",
			"position": "Engineer"
		}`
		req := httptest.NewRequest(http.MethodPost, "/credentials", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Ok)
		data := env.Data.(map[string]interface{})
		assert.Equal(t, "EMP-000001", data["id"])
	})

	t.Run("400 on missing kind, before the service is reached", func(t *testing.T) {
		svc := &fakeCredentialService{
			CreateFn: func(ctx context.Context, req credential.CreateCredentialRequest) (credential.CredentialResponse, error) {
				t.Fatal("service should not be called")
				return credential.CredentialResponse{}, nil
			},
		}
		r := setupHandlerTest(svc)

		req := httptest.NewRequest(http.MethodPost, "/credentials", bytes.NewBufferString(`{"subject_name":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Ok)
	})

	t.Run("400 bubbles up typed validation errors", func(t *testing.T) {
		svc := &fakeCredentialService{
			CreateFn: func(ctx context.Context, req credential.CreateCredentialRequest) (credential.CredentialResponse, error) {
				return credential.CredentialResponse{}, credentialerrors.ErrInvalidExpiryDate
			},
		}
		r := setupHandlerTest(svc)

		body := `{"kind":"employee"}`
		req := httptest.NewRequest(http.MethodPost, "/credentials", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		errObj := env.Error.(map[string]interface{})
		assert.Equal(t, apperror.CodeInvalidInput, errObj["code"])
	})
}

func TestCredentialHandler_GetAll(t *testing.T) {
	corpus := []credential.CredentialResponse{
		{ID: "EMP-000002", SubjectName: "Jane Roe", Company: "Globex", ExpiryDate: "2027-01-01"},
		{ID: "EMP-000001", SubjectName: "John Doe", Company: "Acme", ExpiryDate: "2026-12-01"},
		{ID: "EMP-000003", SubjectName: "Sam Porter", Company: "Initech", ExpiryDate: "2026-10-01"},
	}

	t.Run("default sort is by id ascending", func(t *testing.T) {
		svc := &fakeCredentialService{
			GetAllFn: func(ctx context.Context, kind string) ([]credential.CredentialResponse, error) {
				assert.Equal(t, "employee", kind)
				out := make([]credential.CredentialResponse, len(corpus))
				copy(out, corpus)
				return out, nil
			},
		}
		r := setupHandlerTest(svc)

		req := httptest.NewRequest(http.MethodGet, "/credentials?kind=employee", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		items := env.Data.([]interface{})
		assert.Len(t, items, 3)
		first := items[0].(map[string]interface{})
		assert.Equal(t, "EMP-000001", first["id"])
		if assert.NotNil(t, env.Meta) {
			assert.Equal(t, int64(3), env.Meta.Total)
		}
	})

	t.Run("pagination slices the sorted list", func(t *testing.T) {
		svc := &fakeCredentialService{
			GetAllFn: func(ctx context.Context, kind string) ([]credential.CredentialResponse, error) {
				out := make([]credential.CredentialResponse, len(corpus))
				copy(out, corpus)
				return out, nil
			},
		}
		r := setupHandlerTest(svc)

		req := httptest.NewRequest(http.MethodGet, "/credentials?page=2&page_size=2", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		items := env.Data.([]interface{})
		assert.Len(t, items, 1)
		only := items[0].(map[string]interface{})
		assert.Equal(t, "EMP-000003", only["id"])
	})

	t.Run("400 on unknown kind", func(t *testing.T) {
		svc := &fakeCredentialService{
			GetAllFn: func(ctx context.Context, kind string) ([]credential.CredentialResponse, error) {
				return nil, credentialerrors.ErrInvalidKind
			},
		}
		r := setupHandlerTest(svc)

		req := httptest.NewRequest(http.MethodGet, "/credentials?kind=drone", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCredentialHandler_Search(t *testing.T) {
	t.Run("forwards query, kind and parsed field", func(t *testing.T) {
		svc := &fakeCredentialService{
			SearchFn: func(ctx context.Context, kind, query string, field credential.SearchField) ([]credential.CredentialResponse, error) {
				assert.Equal(t, "vehicle", kind)
				assert.Equal(t, "acme", query)
				assert.Equal(t, credential.SearchCompany, field)
				return []credential.CredentialResponse{{ID: "VEH-000001"}}, nil
			},
		}
		r := setupHandlerTest(svc)

		req := httptest.NewRequest(http.MethodGet, "/credentials/search?kind=vehicle&q=acme&field=company", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Ok)
	})

	t.Run("400 on unknown field, before the service is reached", func(t *testing.T) {
		svc := &fakeCredentialService{
			SearchFn: func(ctx context.Context, kind, query string, field credential.SearchField) ([]credential.CredentialResponse, error) {
				t.Fatal("service should not be called")
				return nil, nil
			},
		}
		r := setupHandlerTest(svc)

		req := httptest.NewRequest(http.MethodGet, "/credentials/search?q=acme&field=license", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("400 on empty query", func(t *testing.T) {
		svc := &fakeCredentialService{
			SearchFn: func(ctx context.Context, kind, query string, field credential.SearchField) ([]credential.CredentialResponse, error) {
				return nil, credentialerrors.ErrEmptySearchQuery
			},
		}
		r := setupHandlerTest(svc)

		req := httptest.NewRequest(http.MethodGet, "/credentials/search?q=", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCredentialHandler_GetById(t *testing.T) {
	t.Run("404 when unknown", func(t *testing.T) {
		svc := &fakeCredentialService{
			GetByIDFn: func(ctx context.Context, id string) (credential.CredentialResponse, error) {
				assert.Equal(t, "EMP-999999", id)
				return credential.CredentialResponse{}, credentialerrors.ErrCredentialNotFound
			},
		}
		r := setupHandlerTest(svc)

		req := httptest.NewRequest(http.MethodGet, "/credentials/EMP-999999", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		env := decodeEnvelope(t, rec)
		errObj := env.Error.(map[string]interface{})
		assert.Equal(t, apperror.CodeNotFound, errObj["code"])
	})
}

func TestCredentialHandler_Deactivate(t *testing.T) {
	t.Run("200 with the deactivated record", func(t *testing.T) {
		svc := &fakeCredentialService{
			DeactivateFn: func(ctx context.Context, id string) (credential.CredentialResponse, error) {
				return credential.CredentialResponse{
					ID:          id,
					Deactivated: true,
					Status:      string(credential.StatusDeactivated),
				}, nil
			},
		}
		r := setupHandlerTest(svc)

		req := httptest.NewRequest(http.MethodPost, "/credentials/EMP-000001/deactivate", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		data := env.Data.(map[string]interface{})
		assert.Equal(t, string(credential.StatusDeactivated), data["status"])
	})
}

func TestCredentialHandler_Stats(t *testing.T) {
	svc := &fakeCredentialService{
		StatsFn: func(ctx context.Context) (credential.StatsResponse, error) {
			return credential.StatsResponse{TotalEmployees: 4, TotalVehicles: 2, Valid: 5, ExpiringSoon: 1}, nil
		},
	}
	r := setupHandlerTest(svc)

	req := httptest.NewRequest(http.MethodGet, "/credentials/stats", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, float64(4), data["total_employees"])
	assert.Equal(t, float64(1), data["expiring_soon"])
}

// keeps the response contract honest: a handler round-trip preserves dates as
// plain YYYY-MM-DD strings.
func TestCredentialHandler_Update(t *testing.T) {
	svc := &fakeCredentialService{
		UpdateFn: func(ctx context.Context, id string, req credential.UpdateCredentialRequest) (credential.CredentialResponse, error) {
			assert.Equal(t, "EMP-000001", id)
			return credential.CredentialResponse{
				ID:         id,
				ExpiryDate: req.ExpiryDate,
				Status:     string(credential.StatusActive),
			}, nil
		},
	}
	r := setupHandlerTest(svc)

	body, _ := json.Marshal(map[string]string{
		"subject_name":    "John Doe",
		"company":         "Acme",
		"contact_phone":   "555-0100",
		"identity_number": "123",
		"expiry_date":     time.Now().AddDate(1, 0, 0).Format("2006-01-02"),
		"position":        "Engineer",
	})
	req := httptest.NewRequest(http.MethodPut, "/credentials/EMP-000001", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, "EMP-000001", data["id"])
}
