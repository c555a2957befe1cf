package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pedidos-agent/internal/domain"
	"pedidos-agent/internal/infrastructure/backend"
	"pedidos-agent/internal/usecase"
)

type OrderGateway interface {
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
	UpdateOrderItems(ctx context.Context, orderID string, items []domain.OrderItem) error
}

type TestPrinter interface {
	TestPrint() error
}

// Server is the local control API the front-end talks to. Everything except
// login requires a token minted by AuthService.
type Server struct {
	auth       *usecase.AuthService
	sync       *usecase.Synchronizer
	dispatcher *usecase.PrintDispatcher
	admin      *usecase.AdminService
	support    *usecase.SupportService
	orders     OrderGateway
	printer    TestPrinter
	log        *slog.Logger
	engine     *gin.Engine
}

func New(
	auth *usecase.AuthService,
	sync *usecase.Synchronizer,
	dispatcher *usecase.PrintDispatcher,
	admin *usecase.AdminService,
	support *usecase.SupportService,
	orders OrderGateway,
	printer TestPrinter,
	log *slog.Logger,
) *Server {
	s := &Server{
		auth:       auth,
		sync:       sync,
		dispatcher: dispatcher,
		admin:      admin,
		support:    support,
		orders:     orders,
		printer:    printer,
		log:        log,
	}
	gin.SetMode(gin.ReleaseMode)
	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.requestLog(), cors.Default())
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() {
	s.engine.POST("/api/login", s.handleLogin)

	api := s.engine.Group("/api", s.requireAuth())
	{
		api.POST("/logout", s.handleLogout)

		api.GET("/orders", s.handleOrders)
		api.POST("/orders/refresh", s.handleRefresh)
		api.GET("/orders/:id", s.handleGetOrder)
		api.POST("/orders/:id/print", s.handlePrintOrder)
		api.PATCH("/orders/:id/status", s.handleOrderStatus)
		api.PATCH("/orders/:id", s.handleOrderItems)

		api.GET("/stats", s.handleStats)
		api.GET("/menu", s.handleMenu)
		api.POST("/menu", s.handleCreateMenuItem)
		api.PUT("/menu", s.handleUpdateMenuItem)
		api.DELETE("/menu", s.handleDeleteMenuItem)
		api.GET("/store-hours", s.handleStoreStatus)
		api.POST("/store-hours", s.handleSetStoreStatus)

		api.GET("/support/conversations", s.handleConversations)
		api.POST("/support/whatsapp", s.handleSendWhatsApp)
		api.POST("/support/message", s.handleSendCustomerMessage)

		api.POST("/printer/test", s.handleTestPrint)
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Header("X-Request-Id", reqID)
		start := time.Now()
		c.Next()
		s.log.Info("http request",
			"request_id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String())
	}
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		token := strings.TrimPrefix(h, "Bearer ")
		if token == "" || token == h {
			s.fail(c, http.StatusUnauthorized, "Unauthorized", "bearer token required")
			c.Abort()
			return
		}
		uid, err := s.auth.Verify(token)
		if err != nil || uid == "" {
			s.fail(c, http.StatusUnauthorized, "Unauthorized", "invalid token")
			c.Abort()
			return
		}
		c.Set("user_id", uid)
		c.Next()
	}
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "BadRequest", "username and password required")
		return
	}
	token, user, err := s.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.auth.Logout(); err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"orders":   s.sync.Snapshot(),
		"lastSync": s.sync.LastSync(),
	})
}

func (s *Server) handleRefresh(c *gin.Context) {
	orders, err := s.sync.Refresh(c.Request.Context())
	if err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "lastSync": s.sync.LastSync()})
}

func (s *Server) handleGetOrder(c *gin.Context) {
	o, ok := s.snapshotOrder(c.Param("id"))
	if !ok {
		var err error
		o, err = s.orders.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			s.failErr(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"order": o})
}

func (s *Server) handlePrintOrder(c *gin.Context) {
	o, ok := s.snapshotOrder(c.Param("id"))
	if !ok {
		var err error
		o, err = s.orders.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			s.failErr(c, err)
			return
		}
	}
	s.dispatcher.PrintNow(o)
	c.JSON(http.StatusAccepted, gin.H{"success": true, "orderId": o.ID})
}

type statusReq struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) handleOrderStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "BadRequest", "status required")
		return
	}
	if err := s.orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type itemsReq struct {
	Items []domain.OrderItem `json:"items" binding:"required"`
}

func (s *Server) handleOrderItems(c *gin.Context) {
	var req itemsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "BadRequest", "items required")
		return
	}
	if err := s.orders.UpdateOrderItems(c.Request.Context(), c.Param("id"), req.Items); err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.admin.Stats(c.Request.Context())
	if err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (s *Server) handleMenu(c *gin.Context) {
	items, err := s.admin.Menu(c.Request.Context())
	if err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) handleCreateMenuItem(c *gin.Context) {
	var item domain.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		s.fail(c, http.StatusBadRequest, "BadRequest", "invalid menu item")
		return
	}
	created, err := s.admin.CreateMenuItem(c.Request.Context(), item)
	if err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": created})
}

func (s *Server) handleUpdateMenuItem(c *gin.Context) {
	var update backend.MenuItemUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		s.fail(c, http.StatusBadRequest, "BadRequest", "invalid menu update")
		return
	}
	updated, err := s.admin.UpdateMenuItem(c.Request.Context(), update)
	if err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": updated})
}

func (s *Server) handleDeleteMenuItem(c *gin.Context) {
	if err := s.admin.DeleteMenuItem(c.Request.Context(), c.Query("id")); err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleStoreStatus(c *gin.Context) {
	st, err := s.admin.StoreStatus(c.Request.Context())
	if err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type storeStatusReq struct {
	IsOpen *bool `json:"isOpen" binding:"required"`
}

func (s *Server) handleSetStoreStatus(c *gin.Context) {
	var req storeStatusReq
	if err := c.ShouldBindJSON(&req); err != nil || req.IsOpen == nil {
		s.fail(c, http.StatusBadRequest, "BadRequest", "isOpen required")
		return
	}
	if err := s.admin.SetStoreStatus(c.Request.Context(), *req.IsOpen); err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleConversations(c *gin.Context) {
	convs, err := s.support.PriorityConversations(c.Request.Context())
	if err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

type messageReq struct {
	Phone   string `json:"phone" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func (s *Server) handleSendWhatsApp(c *gin.Context) {
	var req messageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "BadRequest", "phone and message required")
		return
	}
	if err := s.support.SendWhatsApp(c.Request.Context(), req.Phone, req.Message); err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleSendCustomerMessage(c *gin.Context) {
	var req messageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "BadRequest", "phone and message required")
		return
	}
	if err := s.support.SendCustomerMessage(c.Request.Context(), req.Phone, req.Message); err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleTestPrint(c *gin.Context) {
	if err := s.printer.TestPrint(); err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) snapshotOrder(id string) (domain.Order, bool) {
	for _, o := range s.sync.Snapshot() {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Order{}, false
}

func (s *Server) failErr(c *gin.Context, err error) {
	var authErr *backend.AuthError
	var remoteErr *backend.RemoteError
	var malformedErr *backend.MalformedResponseError
	var netErr *backend.NetworkError
	var badReq usecase.ErrBadRequest
	var notFound usecase.ErrNotFound
	switch {
	case errors.As(err, &authErr):
		s.fail(c, http.StatusUnauthorized, "Unauthorized", authErr.Error())
	case errors.As(err, &badReq):
		s.fail(c, http.StatusBadRequest, "BadRequest", badReq.Error())
	case errors.As(err, &notFound):
		s.fail(c, http.StatusNotFound, "NotFound", notFound.Error())
	case errors.As(err, &remoteErr):
		if remoteErr.StatusCode == http.StatusNotFound {
			s.fail(c, http.StatusNotFound, "NotFound", remoteErr.Error())
			return
		}
		s.fail(c, http.StatusBadGateway, "UpstreamError", remoteErr.Error())
	case errors.As(err, &malformedErr):
		s.fail(c, http.StatusBadGateway, "UpstreamError", malformedErr.Error())
	case errors.As(err, &netErr):
		s.fail(c, http.StatusServiceUnavailable, "UpstreamUnreachable", netErr.Error())
	default:
		s.fail(c, http.StatusInternalServerError, "ServerError", err.Error())
	}
}

func (s *Server) fail(c *gin.Context, status int, code, msg string) {
	reqID, _ := c.Get("request_id")
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":      code,
			"message":   msg,
			"requestId": reqID,
		},
	})
}
