// Package testserver provides a gin-backed HTTP fixture for exercising JSON
// clients against a real server.
package testserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Person is the fixture resource.
type Person struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Age      int       `json:"age"`
	Children []Person  `json:"children,omitempty"`
}

// Family returns a person with two nested generations of children.
func Family() Person {
	return Person{
		ID:   uuid.New(),
		Name: "Grace",
		Age:  72,
		Children: []Person{
			{ID: uuid.New(), Name: "Alan", Age: 45, Children: []Person{{ID: uuid.New(), Name: "Ada", Age: 12}}},
			{ID: uuid.New(), Name: "Edsger", Age: 41},
		},
	}
}

// Request is a request as received by the server.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// Server records every request and serves these routes:
//
//	ANY /echo           200 with the request body echoed back
//	ANY /status/:code   :code with the "body" query value as body
//	ANY /raw            200 with the "body" query value as body
//	ANY /empty          200 without a body
//	ANY /nocontent      204
//	ANY /truncated      200 announcing more bytes than it sends, then drops the connection
//	ANY /hang           blocks until the client goes away
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
}

// New starts a server and registers its shutdown with t.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{}
	engine := gin.New()
	engine.Use(s.record)

	engine.Any("/echo", func(c *gin.Context) {
		body, _ := c.Get("body")
		c.Data(http.StatusOK, "application/json", body.([]byte))
	})
	engine.Any("/status/:code", func(c *gin.Context) {
		code, err := strconv.Atoi(c.Param("code"))
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Data(code, "text/plain", []byte(c.Query("body")))
	})
	engine.Any("/raw", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(c.Query("body")))
	})
	engine.Any("/empty", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	engine.Any("/nocontent", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	engine.Any("/truncated", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.Header("Content-Length", "64")
		c.Status(http.StatusOK)
		_, _ = c.Writer.WriteString(`{"name":"Gr`)
		c.Writer.Flush()
		panic(http.ErrAbortHandler)
	})
	engine.Any("/hang", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	s.Server = httptest.NewServer(engine)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Set("body", body)

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:   c.Request.Method,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
		Header:   c.Request.Header.Clone(),
		Body:     body,
	})
	s.mu.Unlock()

	c.Next()
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Last returns the most recent request. It fails t when none was received.
func (s *Server) Last(t testing.TB) Request {
	t.Helper()
	reqs := s.Requests()
	if len(reqs) == 0 {
		t.Fatal("testserver: no request received")
	}
	return reqs[len(reqs)-1]
}
