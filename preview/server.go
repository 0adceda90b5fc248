package preview

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"docsite/types"
)

// hostTemplate wraps the rendered site in a device-simulation shell: a fixed
// width iframe scaled with a CSS transform, plus a toolbar for device, zoom,
// and section highlighting.
var hostTemplate = template.Must(template.New("host").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Site Preview</title>
<style>
body { margin: 0; background: #e5e7eb; font-family: sans-serif; }
.toolbar { display: flex; gap: 8px; align-items: center; padding: 10px 16px; background: #111827; color: #f9fafb; }
.toolbar a { color: #93c5fd; text-decoration: none; margin-right: 4px; }
.toolbar .active { font-weight: bold; color: #fff; }
.stage { display: flex; justify-content: center; padding: 24px; }
.frame-wrap { width: {{.Width}}px; transform: scale({{.Scale}}); transform-origin: top center; }
iframe { width: {{.Width}}px; height: 2000px; border: 0; background: #fff; box-shadow: 0 4px 24px rgba(0,0,0,0.15); }
</style>
</head>
<body>
<div class="toolbar">
<span>Preview</span>
{{range .Devices}}<a href="?device={{.}}&zoom={{$.Zoom}}" {{if eq . $.Device}}class="active"{{end}}>{{.}}</a>{{end}}
<span>zoom {{.Zoom}}%</span>
<a href="?device={{.Device}}&zoom={{.ZoomOut}}">-</a>
<a href="?device={{.Device}}&zoom={{.ZoomIn}}">+</a>
<input id="hl" placeholder="highlight section id">
</div>
<div class="stage">
<div class="frame-wrap">
<iframe id="site" src="/preview/frame"></iframe>
</div>
</div>
<script>
document.getElementById('hl').addEventListener('change', function() {
    var frame = document.getElementById('site');
    frame.contentWindow.postMessage({type: 'highlight-section', section: this.value}, '*');
});
</script>
</body>
</html>
`))

// Server is the local preview server. It holds the latest website data and
// serves it rendered inside the device-simulation host page.
type Server struct {
	mu   sync.RWMutex
	data *types.WebsiteData
}

// NewServer creates an empty preview server
func NewServer() *Server {
	return &Server{}
}

// SetData replaces the website data being previewed
func (s *Server) SetData(data *types.WebsiteData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

// Router constructs the gin engine with registered routes
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/preview", s.handleHost)
	r.GET("/preview/frame", s.handleFrame)
	r.POST("/preview/content", s.handleSetContent)
	return r
}

// Run starts the server on the given port, blocking until it exits
func (s *Server) Run(port string) error {
	return s.Router().Run(":" + port)
}

// handleHost serves the device-simulation shell
func (s *Server) handleHost(c *gin.Context) {
	device := ParseDevice(c.Query("device"))
	zoom := 100
	if z, err := strconv.Atoi(c.Query("zoom")); err == nil {
		zoom = ClampZoom(z)
	}

	payload := struct {
		Device  Device
		Devices []Device
		Width   int
		Zoom    int
		ZoomIn  int
		ZoomOut int
		Scale   string
	}{
		Device:  device,
		Devices: []Device{DeviceDesktop, DeviceTablet, DeviceMobile},
		Width:   device.Width(),
		Zoom:    zoom,
		ZoomIn:  ClampZoom(zoom + 25),
		ZoomOut: ClampZoom(zoom - 25),
		Scale:   fmt.Sprintf("%.2f", float64(zoom)/100),
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := hostTemplate.Execute(c.Writer, payload); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

// handleFrame serves the rendered site document itself
func (s *Server) handleFrame(c *gin.Context) {
	s.mu.RLock()
	data := s.data
	s.mu.RUnlock()

	if data == nil {
		c.Data(http.StatusOK, "text/html; charset=utf-8",
			[]byte("<!DOCTYPE html><html><body><p>No website to preview yet.</p></body></html>"))
		return
	}

	html, err := Render(data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// handleSetContent replaces the previewed website data
func (s *Server) handleSetContent(c *gin.Context) {
	var data types.WebsiteData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid website data: " + err.Error()})
		return
	}
	s.SetData(&data)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
