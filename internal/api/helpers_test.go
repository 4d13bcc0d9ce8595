package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/maidbook/maidbook/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

const (
	ownerKey   = "owner-key"
	cleanerKey = "cleaner-key"
)

type mockPrincipals struct{}

func (mockPrincipals) GetPrincipalByAPIKey(_ context.Context, apiKey string) (*models.Principal, error) {
	switch apiKey {
	case ownerKey:
		return &models.Principal{UserID: "user-1", CompanyID: "company-1", Role: models.RoleOwner}, nil
	case cleanerKey:
		return &models.Principal{UserID: "user-2", CompanyID: "company-1", Role: models.RoleCleaner}, nil
	}

	return nil, models.ErrPrincipalNotFound
}

// doRequest performs an HTTP request against h and returns the recorder.
func doRequest(h http.Handler, method, path, apiKey, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, http.NoBody)
	}

	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}
