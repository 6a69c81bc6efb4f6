package restyutil

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// InstrumentOutput receives a rendered request/response exchange under a
// unique id.
type InstrumentOutput interface {
	Write(id string, contents string)
}

type dumpCtx struct {
	output    InstrumentOutput
	prefix    string
	idcounter *uint64
}

// InstrumentClient writes every exchange made by client to output, ids are
// prefix followed by a sequence number. A nil output makes this a no-op.
func InstrumentClient(client *resty.Client, prefix string, output InstrumentOutput) {
	if output == nil {
		return
	}

	var idcounter uint64
	d := dumpCtx{output: output, prefix: prefix, idcounter: &idcounter}
	client.OnAfterResponse(d.onAfterResponse)
	client.OnError(d.onError)
}

func (d dumpCtx) nextId() string {
	return fmt.Sprintf("%s%s", d.prefix, strconv.FormatUint(atomic.AddUint64(d.idcounter, 1), 10))
}

func (d dumpCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	id := d.nextId()
	d.output.Write(id, formatHttpMessage(res))
	slog.DebugContext(
		res.Request.Context(), "dumped http exchange",
		"method", res.Request.Method,
		"url", res.Request.URL,
		"message_id", id,
	)
	return nil
}

func (d dumpCtx) onError(req *resty.Request, err error) {
	id := d.nextId()
	d.output.Write(id, fmt.Sprintf("---- REQUEST ----\n\n%s %s\n\n---- ERROR ----\n\n%s", req.Method, req.URL, err.Error()))
}
