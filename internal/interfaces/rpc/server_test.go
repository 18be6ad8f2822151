package rpc

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newDispatchServer(called *string) *Server {
	s := &Server{methods: make(map[string]MethodFunc), logger: zap.NewNop()}
	s.register("create_material_receipt", func(c *gin.Context, kw Kwargs) {
		*called = "create_material_receipt"
		reply(c, gin.H{"ok": true})
	})
	return s
}

func TestDispatch(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("bare method names resolve", func(t *testing.T) {
		var called string
		s := newDispatchServer(&called)
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/method/create_material_receipt", nil)
		c.Params = gin.Params{{Key: "method", Value: "create_material_receipt"}}

		s.dispatch(c)

		assert.Equal(t, "create_material_receipt", called)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("fully qualified names resolve to the last segment", func(t *testing.T) {
		var called string
		s := newDispatchServer(&called)
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/method/xuanhoa_app.api.create_material_receipt", nil)
		c.Params = gin.Params{{Key: "method", Value: "xuanhoa_app.api.create_material_receipt"}}

		s.dispatch(c)

		assert.Equal(t, "create_material_receipt", called)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("unknown methods answer 404", func(t *testing.T) {
		var called string
		s := newDispatchServer(&called)
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/method/xuanhoa_app.api.no_such_method", nil)
		c.Params = gin.Params{{Key: "method", Value: "xuanhoa_app.api.no_such_method"}}

		s.dispatch(c)

		assert.Empty(t, called)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
