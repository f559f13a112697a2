package routes_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"authapp/internal/delivery/http/routes"
	"authapp/internal/shared"
)

func newRouter(t *testing.T) *gin.Engine {
	logger, err := shared.NewAppLogger("authapp-test")
	Expect(err).NotTo(HaveOccurred())

	return routes.SetupRouter(routes.HandlersConfig{}, shared.NewAppMetrics(prometheus.NewRegistry()), logger)
}

func TestSetupRouterDefaultsToReleaseMode(t *testing.T) {
	RegisterTestingT(t)

	os.Unsetenv(gin.EnvGinMode)
	gin.SetMode(gin.DebugMode)

	newRouter(t)

	Expect(gin.Mode()).To(Equal(gin.ReleaseMode))
}

func TestSetupRouterKeepsExplicitMode(t *testing.T) {
	RegisterTestingT(t)

	t.Setenv(gin.EnvGinMode, gin.DebugMode)
	gin.SetMode(gin.DebugMode)

	newRouter(t)

	Expect(gin.Mode()).To(Equal(gin.DebugMode))
}

func TestSetupRouterForTestsUsesTestMode(t *testing.T) {
	RegisterTestingT(t)

	gin.SetMode(gin.DebugMode)

	router := routes.SetupRouterForTests(routes.HandlersConfig{})

	Expect(gin.Mode()).To(Equal(gin.TestMode))

	req, _ := http.NewRequest("OPTIONS", "/register", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusNoContent))
	Expect(rr.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
}
