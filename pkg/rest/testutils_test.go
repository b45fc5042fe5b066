package rest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/inbucket/mailview/pkg/config"
	"github.com/inbucket/mailview/pkg/message"
	"github.com/inbucket/mailview/pkg/server/web"
)

// testServer returns the complete HTTP handler of a web server with REST routes over mm.
func testServer(mm message.Manager) http.Handler {
	cfg := &config.Root{
		Web: config.Web{
			Addr: "127.0.0.1:0",
		},
	}
	srv := web.NewServer(cfg, mm)
	SetupRoutes(srv.Router)
	return srv.Handler()
}

func testRestGet(h http.Handler, url string) (*httptest.ResponseRecorder, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Accept", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w, nil
}

func decodedStringEquals(t *testing.T, json interface{}, path string, want string) {
	t.Helper()
	els := strings.Split(path, "/")
	val, msg := getDecodedPath(json, els...)
	if msg != "" {
		t.Errorf("JSON result%s", msg)
		return
	}
	if got, ok := val.(string); ok {
		if got == want {
			return
		}
	}
	t.Errorf("JSON result/%s == %v (%T), want: %v", path, val, val, want)
}

func decodedLenEquals(t *testing.T, json interface{}, path string, want int) {
	t.Helper()
	var els []string
	if path != "" {
		els = strings.Split(path, "/")
	}
	val, msg := getDecodedPath(json, els...)
	if msg != "" {
		t.Errorf("JSON result%s", msg)
		return
	}
	got := -1
	switch v := val.(type) {
	case []interface{}:
		got = len(v)
	case map[string]interface{}:
		got = len(v)
	}
	if got != want {
		t.Errorf("len(JSON result/%s) == %v, want: %v", path, got, want)
	}
}

// getDecodedPath recursively navigates the specified path, returing the requested element. If
// something goes wrong, the returned string will contain an explanation.
//
// Named path elements require the parent element to be a map[string]interface{}, numbers in square
// brackets require the parent element to be a []interface{}.
//
//	getDecodedPath(o, "parts", "[1]", "ctype")
//
// is equivalent to the JavaScript:
//
//	o.parts[1].ctype
func getDecodedPath(o interface{}, path ...string) (interface{}, string) {
	if len(path) == 0 {
		return o, ""
	}
	if o == nil {
		return nil, " is nil"
	}
	key := path[0]
	present := false
	var val interface{}
	if key != "" && key[0] == '[' {
		// Expecting slice.
		index, err := strconv.Atoi(strings.Trim(key, "[]"))
		if err != nil {
			return nil, "/" + key + " is not a slice index"
		}
		oslice, ok := o.([]interface{})
		if !ok {
			return nil, " is not a slice"
		}
		if index >= len(oslice) {
			return nil, "/" + key + " is out of bounds"
		}
		val, present = oslice[index], true
	} else {
		// Expecting map.
		omap, ok := o.(map[string]interface{})
		if !ok {
			return nil, " is not a map"
		}
		val, present = omap[key]
	}
	if !present {
		return nil, "/" + key + " is missing"
	}
	result, msg := getDecodedPath(val, path[1:]...)
	if msg != "" {
		return nil, "/" + key + msg
	}
	return result, ""
}
