package echo

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abdul-hamid-achik/httpcase/packages/form"
)

func registerRoutes(r *gin.Engine) {
	r.GET("/get", handleEcho(false))
	r.POST("/post", handleEcho(true))
	r.PUT("/put", handleEcho(true))
	r.PATCH("/patch", handleEcho(true))
	r.DELETE("/delete", handleEcho(true))
	r.Any("/anything", handleEcho(true))
	r.Any("/anything/*rest", handleEcho(true))

	r.Any("/status/:code", handleStatus)
	r.Any("/redirect-to", handleRedirectTo)
	r.GET("/redirect/:n", handleRedirect(false))
	r.GET("/relative-redirect/:n", handleRedirect(false))
	r.GET("/absolute-redirect/:n", handleRedirect(true))
}

// handleEcho reflects the request. Bracketed field names in the query and
// form are nested (nest[key]=v becomes {"nest": {"key": "v"}}).
func handleEcho(withBody bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		out := gin.H{
			"args":    form.Expand(c.Request.URL.Query()),
			"headers": flattenHeaders(c.Request),
			"method":  c.Request.Method,
			"origin":  c.ClientIP(),
			"url":     requestURL(c.Request),
		}

		if withBody {
			body, err := readBody(c.Request)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			for k, v := range body {
				out[k] = v
			}
		}

		c.JSON(http.StatusOK, out)
	}
}

func readBody(r *http.Request) (gin.H, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	out := gin.H{
		"data":  "",
		"form":  map[string]any{},
		"files": map[string]any{},
		"json":  nil,
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, err
		}
		out["form"] = form.Expand(values)

	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(MaxMemory); err != nil {
			return nil, err
		}
		out["form"] = form.Expand(r.MultipartForm.Value)

		files := url.Values{}
		for name, headers := range r.MultipartForm.File {
			for _, fh := range headers {
				f, err := fh.Open()
				if err != nil {
					return nil, err
				}
				content, err := io.ReadAll(f)
				f.Close()
				if err != nil {
					return nil, err
				}
				files.Add(name, string(content))
			}
		}
		out["files"] = form.Expand(files)

	default:
		out["data"] = string(raw)
		var decoded any
		if len(raw) > 0 && json.Unmarshal(raw, &decoded) == nil {
			out["json"] = decoded
		}
	}

	return out, nil
}

func handleStatus(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil || code < 100 || code > 599 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status code"})
		return
	}
	c.Status(code)
}

// handleRedirectTo answers with the url parameter as Location, verbatim.
// status_code outside 3xx falls back to 302.
func handleRedirectTo(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing url parameter"})
		return
	}

	status := http.StatusFound
	if raw := c.Query("status_code"); raw != "" {
		if code, err := strconv.Atoi(raw); err == nil && code >= 300 && code < 400 {
			status = code
		}
	}

	c.Header("Location", target)
	c.Status(status)
}

// handleRedirect redirects n times before landing on /get.
func handleRedirect(absolute bool) gin.HandlerFunc {
	prefix := "/relative-redirect/"
	if absolute {
		prefix = "/absolute-redirect/"
	}

	return func(c *gin.Context) {
		n, err := strconv.Atoi(c.Param("n"))
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid redirect count"})
			return
		}

		location := "/get"
		if n > 1 {
			location = prefix + strconv.Itoa(n-1)
		}
		if absolute {
			location = baseURL(c.Request) + location
		}

		c.Header("Location", location)
		c.Status(http.StatusFound)
	}
}

func flattenHeaders(r *http.Request) map[string]string {
	headers := make(map[string]string, len(r.Header)+1)
	for name, values := range r.Header {
		headers[name] = strings.Join(values, ", ")
	}
	headers["Host"] = r.Host
	return headers
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func requestURL(r *http.Request) string {
	return baseURL(r) + r.URL.RequestURI()
}
