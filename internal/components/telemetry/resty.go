package telemetry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	report_resty_request  = "resty.request"
	report_resty_response = "resty.response"
)

type exchangeKey struct{}

type restyInstrument struct {
	tel  API
	next atomic.Uint64
}

// InstrumentResty reports every exchange of client at debug level. Error statuses become
// warnings carrying a dump of the exchange, transport failures are reported as broken.
func InstrumentResty(client *resty.Client, tel API) {
	in := &restyInstrument{tel: tel}
	client.OnBeforeRequest(in.before)
	client.OnAfterResponse(in.after)
	client.OnError(in.failed)
}

func exchangeId(req *resty.Request) uint64 {
	id, _ := req.Context().Value(exchangeKey{}).(uint64)
	return id
}

func (in *restyInstrument) before(_ *resty.Client, req *resty.Request) error {
	id := in.next.Add(1)
	req.SetContext(context.WithValue(req.Context(), exchangeKey{}, id))
	in.tel.ReportDebug(report_resty_request, id, req.Method, req.URL)
	return nil
}

func (in *restyInstrument) after(_ *resty.Client, res *resty.Response) error {
	in.tel.ReportDebug(
		report_resty_response,
		exchangeId(res.Request),
		res.Time().String(),
		res.Status(),
	)
	if res.StatusCode() >= 400 {
		in.tel.ReportWarning(
			report_resty_response,
			fmt.Errorf("unexpected status %d", res.StatusCode()),
			dumpExchange(res),
		)
	}
	return nil
}

func (in *restyInstrument) failed(req *resty.Request, err error) {
	var elapsed time.Duration
	if !req.Time.IsZero() {
		elapsed = time.Since(req.Time)
	}
	in.tel.ReportBroken(report_resty_response, err, req.Method, req.URL, elapsed.String())
}

func writeHeaders(out *strings.Builder, headers http.Header) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range headers[k] {
			fmt.Fprintf(out, "%s: %s\n", k, v)
		}
	}
}

func requestBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return "(no body)"
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("(unreadable body: %s)", err)
	}
	defer body.Close()
	contents, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("(unreadable body: %s)", err)
	}
	return string(contents)
}

// dumpExchange renders the request and response of res as text, portal pages change
// without notice so the full body is kept for investigation.
func dumpExchange(res *resty.Response) string {
	var out strings.Builder

	out.WriteString("> ")
	out.WriteString(res.Request.Method)
	out.WriteString(" ")
	out.WriteString(res.Request.URL)
	out.WriteString("\n")
	if raw := res.Request.RawRequest; raw != nil {
		writeHeaders(&out, raw.Header)
	}
	out.WriteString("\n")
	out.WriteString(requestBody(res.Request.RawRequest))
	out.WriteString("\n\n< ")

	out.WriteString(res.Status())
	if res.RawResponse != nil {
		if location, err := res.RawResponse.Location(); err == nil {
			out.WriteString(" -> ")
			out.WriteString(location.String())
		}
	}
	out.WriteString("\n")
	writeHeaders(&out, res.Header())
	out.WriteString("\n")
	out.WriteString(res.String())

	return out.String()
}
