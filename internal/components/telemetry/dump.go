package telemetry

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// HTTPDump writes every exchange made by an instrumented client into its own
// file in a directory, used to inspect what the scraper actually received.
type HTTPDump struct {
	directory string
	tel       API
	counter   *uint64
}

// NewHTTPDump empties dir (creating it if needed) and returns a dump writing into it.
func NewHTTPDump(dir string, tel API) (HTTPDump, error) {
	err := os.RemoveAll(dir)
	if err != nil {
		return HTTPDump{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return HTTPDump{}, err
	}
	var counter uint64
	return HTTPDump{directory: dir, tel: tel, counter: &counter}, nil
}

// Instrument registers the dump on client.
func (d HTTPDump) Instrument(client *resty.Client) {
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := atomic.AddUint64(d.counter, 1)
		d.write(fmt.Sprintf("%04d.txt", id), formatExchange(res))
		return nil
	})
}

func (d HTTPDump) write(name, contents string) {
	err := os.WriteFile(filepath.Join(d.directory, name), []byte(contents), 0600)
	if err != nil {
		d.tel.ReportWarning("http-dump.write", name, err)
	}
}

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		for _, v := range headers[k] {
			out = append(out, fmt.Sprintf("%s: %s", k, v))
		}
	}
	return strings.Join(out, "\n")
}

func formatRequestBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("failed to get request body: %s", err.Error())
	}
	read, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("failed to read request body: %s", err.Error())
	}
	return string(read)
}

// 1: request method
// 2: request url
// 3: request headers
// 4: request body
// 5: response status
// 6: response url
// 7: response headers
// 8: response body
const exchangeTemplate = `---- REQUEST ----

%s %s

%s

%s

---- RESPONSE ----

%s %s

%s

%s`

func formatExchange(res *resty.Response) string {
	var requestHeaders http.Header
	if res.Request.RawRequest != nil {
		requestHeaders = res.Request.RawRequest.Header
	}

	responseURL := res.Request.URL
	if res.RawResponse != nil {
		redirected, err := res.RawResponse.Location()
		if err == nil {
			responseURL = redirected.String()
		}
	}

	return fmt.Sprintf(
		exchangeTemplate,

		res.Request.Method, res.Request.URL,
		formatHeaders(requestHeaders),
		formatRequestBody(res.Request.RawRequest),

		strconv.Itoa(res.StatusCode()), responseURL,
		formatHeaders(res.Header()),
		res.String(),
	)
}
