package routes

import (
	"Undercover/services/game"
	"Undercover/services/rooms"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type nopNotifier struct{}

func (nopNotifier) Join(string, string)           {}
func (nopNotifier) Broadcast(string, string, any) {}
func (nopNotifier) SendTo(string, string, any)    {}

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	m := rooms.NewManager(rooms.NewMemoryStore(), nopNotifier{}, nil, game.DefaultCatalog())
	SetupRoutes(router, m, nil, nil)

	tests := []struct {
		path string
		want int
	}{
		{"/ping", http.StatusOK},
		{"/rooms/code", http.StatusOK},
		{"/rooms/ABCDEF", http.StatusNotFound},
		{"/games", http.StatusServiceUnavailable},
		{"/games/ABCDEF", http.StatusServiceUnavailable},
		{"/swagger/index.html", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
