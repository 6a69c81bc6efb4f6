package restyutil

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	mutex    sync.Mutex
	messages map[string]string
}

func (m *memoryOutput) Write(id string, contents string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.messages[id] = contents
}

func TestInstrumentClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"SESSION_OK":true}`))
	}))
	defer srv.Close()

	output := &memoryOutput{messages: map[string]string{}}
	client := resty.New()
	InstrumentClient(client, "webreg_", output)

	for range 2 {
		_, err := client.R().Get(srv.URL + "/ping-server")
		require.NoError(t, err)
	}
	_, err := client.R().Get("http://127.0.0.1:0/unreachable")
	require.Error(t, err)

	ids := []string{}
	for id := range output.messages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	require.Equal(t, []string{"webreg_1", "webreg_2", "webreg_3"}, ids)

	require.Contains(t, output.messages["webreg_1"], "GET "+srv.URL+"/ping-server")
	require.Contains(t, output.messages["webreg_1"], `{"SESSION_OK":true}`)
	require.Contains(t, output.messages["webreg_3"], "---- ERROR ----")
}

func TestInstrumentClientNilOutput(t *testing.T) {
	client := resty.New()
	InstrumentClient(client, "webreg_", nil)
}
