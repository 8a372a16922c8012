package server

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zucenko/gridbot/model"
	"github.com/zucenko/gridbot/settings"
)

func startServer(t *testing.T, settingsFile string) (*BotServer, *httptest.Server) {
	t.Helper()
	g, err := model.NewGridSize(5, 5)
	require.NoError(t, err)
	bs := NewBotServer(g, settings.Default(), 0, settingsFile)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		bs.Loop(ctx)
		close(done)
	}()
	ts := httptest.NewServer(bs.Routes())
	t.Cleanup(func() {
		cancel()
		<-done
		ts.Close()
	})
	return bs, ts
}

func do(t *testing.T, method, url string, body io.Reader) (int, Snapshot) {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	snap := Snapshot{}
	if resp.StatusCode == HTTP_SUCCESS && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	}
	return resp.StatusCode, snap
}

func dial(t *testing.T, ts *httptest.Server) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	return websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+URI_WS, nil)
}

func readMessage(t *testing.T, conn *websocket.Conn) model.ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, r, err := conn.NextReader()
	require.NoError(t, err)
	m := model.ServerMessage{}
	require.NoError(t, gob.NewDecoder(r).Decode(&m))
	return m
}

func writeMessage(t *testing.T, conn *websocket.Conn, cm model.ClientMessage) {
	t.Helper()
	w, err := conn.NextWriter(websocket.BinaryMessage)
	require.NoError(t, err)
	require.NoError(t, gob.NewEncoder(w).Encode(cm))
	require.NoError(t, w.Close())
}

func TestSelectAndClear(t *testing.T) {
	_, ts := startServer(t, "")

	code, snap := do(t, "GET", ts.URL+"/grid", nil)
	require.Equal(t, HTTP_SUCCESS, code)
	assert.Equal(t, 5, snap.Rows)
	assert.Equal(t, []model.Cell{{Row: 4, Col: 2}, {Row: 3, Col: 2}}, snap.Path)
	assert.Equal(t, "IDLE", snap.State)
	assert.ElementsMatch(t, []model.Cell{{Row: 2, Col: 2}, {Row: 3, Col: 1}, {Row: 3, Col: 3}}, snap.Selectable)

	code, snap = do(t, "POST", ts.URL+"/path/2/2", nil)
	require.Equal(t, HTTP_SUCCESS, code)
	assert.Len(t, snap.Path, 3)
	assert.Equal(t, "UP", snap.Direction)

	code, _ = do(t, "POST", ts.URL+"/path/0/0", nil)
	assert.Equal(t, HTTP_UNPROCESSABLE, code)
	code, _ = do(t, "POST", ts.URL+"/path/x/1", nil)
	assert.Equal(t, HTTP_BAD_REQUEST, code)

	code, snap = do(t, "POST", ts.URL+"/clear", nil)
	require.Equal(t, HTTP_SUCCESS, code)
	assert.Len(t, snap.Path, 2)
}

func TestRunOverController(t *testing.T) {
	_, ts := startServer(t, "")
	do(t, "POST", ts.URL+"/path/2/2", nil)
	do(t, "POST", ts.URL+"/path/2/1", nil)

	code, _ := do(t, "POST", ts.URL+"/run", nil)
	require.Equal(t, HTTP_CONFLICT, code)

	conn, _, err := dial(t, ts)
	require.NoError(t, err)
	defer conn.Close()

	setup := readMessage(t, conn)
	require.Len(t, setup.Setup, 1)
	assert.Equal(t, 5, setup.Setup[0].Rows)
	assert.Len(t, setup.Setup[0].Path, 4)
	assert.NotEmpty(t, setup.Setup[0].SessionId)

	_, resp, err := dial(t, ts)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, HTTP_CONFLICT, resp.StatusCode)

	code, snap := do(t, "POST", ts.URL+"/run", nil)
	require.Equal(t, HTTP_SUCCESS, code)
	assert.Equal(t, "RUNNING", snap.State)
	assert.Equal(t, setup.Setup[0].SessionId, snap.Controller)

	m := readMessage(t, conn)
	require.Len(t, m.Steps, 1)
	assert.Equal(t, 0, m.Steps[0].Index)
	assert.Equal(t, model.UP, m.Steps[0].Direction)
	assert.Equal(t, 0, m.Steps[0].QuarterTurns)
	assert.Equal(t, 0, m.Steps[0].TurnMillis)
	assert.Equal(t, 1000, m.Steps[0].DriveMillis)

	writeMessage(t, conn, model.ClientMessage{Done: 0})
	m = readMessage(t, conn)
	require.Len(t, m.Steps, 1)
	assert.Equal(t, 1, m.Steps[0].Index)
	assert.Equal(t, model.UP, m.Steps[0].Direction)

	// a stale report does not advance the cursor
	writeMessage(t, conn, model.ClientMessage{Done: 0})
	writeMessage(t, conn, model.ClientMessage{Done: 1})
	m = readMessage(t, conn)
	require.Len(t, m.Steps, 1)
	assert.Equal(t, 2, m.Steps[0].Index)
	assert.Equal(t, model.LEFT, m.Steps[0].Direction)
	assert.Equal(t, -1, m.Steps[0].QuarterTurns)
	assert.Equal(t, 600, m.Steps[0].TurnMillis)
	assert.Equal(t, model.Cell{Row: 2, Col: 1}, m.Steps[0].Next)

	writeMessage(t, conn, model.ClientMessage{Done: 2})
	m = readMessage(t, conn)
	assert.True(t, m.Stop)

	code, snap = do(t, "GET", ts.URL+"/grid", nil)
	require.Equal(t, HTTP_SUCCESS, code)
	assert.Equal(t, "COMPLETE", snap.State)
	assert.Equal(t, 3, snap.Cursor)
	assert.True(t, snap.Complete)

	code, _ = do(t, "POST", ts.URL+"/path/1/1", nil)
	assert.Equal(t, HTTP_CONFLICT, code)
	code, snap = do(t, "POST", ts.URL+"/dismiss", nil)
	require.Equal(t, HTTP_SUCCESS, code)
	assert.Equal(t, "IDLE", snap.State)
	assert.Equal(t, 0, snap.Cursor)
}

func TestFaultStopsRun(t *testing.T) {
	_, ts := startServer(t, "")
	conn, _, err := dial(t, ts)
	require.NoError(t, err)
	defer conn.Close()
	readMessage(t, conn)

	code, _ := do(t, "POST", ts.URL+"/run", nil)
	require.Equal(t, HTTP_SUCCESS, code)
	readMessage(t, conn)

	writeMessage(t, conn, model.ClientMessage{Fault: "wheel stuck"})
	m := readMessage(t, conn)
	assert.True(t, m.Stop)

	_, snap := do(t, "GET", ts.URL+"/grid", nil)
	assert.Equal(t, "IDLE", snap.State)
	assert.Len(t, snap.Path, 2)
}

func TestDisconnectStopsRun(t *testing.T) {
	_, ts := startServer(t, "")
	conn, _, err := dial(t, ts)
	require.NoError(t, err)
	readMessage(t, conn)

	code, _ := do(t, "POST", ts.URL+"/run", nil)
	require.Equal(t, HTTP_SUCCESS, code)
	readMessage(t, conn)
	conn.Close()

	require.Eventually(t, func() bool {
		_, snap := do(t, "GET", ts.URL+"/grid", nil)
		return snap.State == "IDLE" && snap.Controller == ""
	}, 3*time.Second, 20*time.Millisecond)

	// the slot is free again
	conn, _, err = dial(t, ts)
	require.NoError(t, err)
	conn.Close()
}

func TestStop(t *testing.T) {
	_, ts := startServer(t, "")
	code, _ := do(t, "POST", ts.URL+"/stop", nil)
	assert.Equal(t, HTTP_CONFLICT, code)

	conn, _, err := dial(t, ts)
	require.NoError(t, err)
	defer conn.Close()
	readMessage(t, conn)

	do(t, "POST", ts.URL+"/run", nil)
	readMessage(t, conn)
	code, snap := do(t, "POST", ts.URL+"/stop", nil)
	require.Equal(t, HTTP_SUCCESS, code)
	assert.Equal(t, "IDLE", snap.State)
	assert.True(t, readMessage(t, conn).Stop)
}

func TestSettings(t *testing.T) {
	file := filepath.Join(t.TempDir(), "settings.yaml")
	_, ts := startServer(t, file)

	code, snap := do(t, "POST", ts.URL+"/settings/drive-speed/1", nil)
	require.Equal(t, HTTP_SUCCESS, code)
	assert.Equal(t, "Fast", snap.Settings.Speed)
	assert.Equal(t, "IDLE", snap.State)

	code, snap = do(t, "POST", ts.URL+"/settings/brightness/-1", nil)
	require.Equal(t, HTTP_SUCCESS, code)
	assert.Equal(t, 50, snap.Settings.Brightness)

	code, _ = do(t, "POST", ts.URL+"/settings/volume/1", nil)
	assert.Equal(t, HTTP_BAD_REQUEST, code)
	code, _ = do(t, "POST", ts.URL+"/settings/brightness/up", nil)
	assert.Equal(t, HTTP_BAD_REQUEST, code)

	saved, err := settings.Load(file)
	require.NoError(t, err)
	assert.Equal(t, settings.SPEED_FAST, saved.Speed)
	assert.Equal(t, 50, saved.Brightness)
}

func TestRoute(t *testing.T) {
	_, ts := startServer(t, "")

	code, snap := do(t, "PUT", ts.URL+"/route", strings.NewReader("U L # corner\nD\n"))
	require.Equal(t, HTTP_SUCCESS, code)
	assert.Equal(t, []model.Cell{{Row: 4, Col: 2}, {Row: 3, Col: 2}, {Row: 2, Col: 2}, {Row: 2, Col: 1}, {Row: 3, Col: 1}}, snap.Path)

	resp, err := http.Get(ts.URL + "/route")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, HTTP_SUCCESS, resp.StatusCode)
	assert.Equal(t, "ULD\n", string(body))

	code, _ = do(t, "PUT", ts.URL+"/route", strings.NewReader("UX"))
	assert.Equal(t, HTTP_BAD_REQUEST, code)

	// runs into the seed
	code, _ = do(t, "PUT", ts.URL+"/route", strings.NewReader("LDR"))
	assert.Equal(t, HTTP_UNPROCESSABLE, code)
	_, snap = do(t, "GET", ts.URL+"/grid", nil)
	assert.Len(t, snap.Path, 2)
}

func TestLoadRoute(t *testing.T) {
	g, err := model.NewGridSize(5, 5)
	require.NoError(t, err)
	require.NoError(t, LoadRoute("", g))
	assert.Equal(t, 2, g.Len())

	path := filepath.Join(t.TempDir(), "demo.route")
	require.NoError(t, os.WriteFile(path, []byte("# demo\nUU\nR\n"), 0644))
	require.NoError(t, LoadRoute(path, g))
	assert.Equal(t, model.Cell{Row: 1, Col: 3}, g.Last())

	assert.Error(t, LoadRoute(filepath.Join(t.TempDir(), "missing.route"), g))
}

func TestResponseCodes(t *testing.T) {
	assert.Equal(t, 200, OK.ToHttp())
	assert.Equal(t, 422, REJECTED.ToHttp())
	assert.Equal(t, 409, BUSY.ToHttp())
	assert.Equal(t, 409, NO_CONTROLLER.ToHttp())
	assert.Equal(t, "NO_CONTROLLER", NO_CONTROLLER.Name())
	assert.Equal(t, "n/a:42", ResponseCode(42).Name())
	assert.Equal(t, "MOVING", SS_MOVING.Name())
}
