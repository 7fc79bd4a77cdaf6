package playground

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	fmtplayground "github.com/wippyai/fmt-playground"
	"github.com/wippyai/fmt-playground/builtin"
	"github.com/wippyai/fmt-playground/document"
	fmterrors "github.com/wippyai/fmt-playground/errors"
	"github.com/wippyai/fmt-playground/registry"
	"github.com/wippyai/fmt-playground/settings"
	"github.com/wippyai/fmt-playground/share"
	"github.com/wippyai/fmt-playground/ui"
)

const (
	simpleSource    = "PROGRAM Simple;\nBEGIN\n  WriteLn('Hi');   \nEND.\n"
	simpleFormatted = "program Simple;\nbegin\n  WriteLn('Hi');\nend.\n"
	helloSource     = "BEGIN WriteLn('Hello') END."
)

// brokenVersion is listed but never loads.
const brokenVersion = "0.2.0"

var allVersions = []string{"0.5.0", "0.4.0", "0.3.0", brokenVersion}

type staticVersions []string

func (s staticVersions) Versions(context.Context) ([]string, error) {
	return s, nil
}

// flakyCatalog serves the builtin engines, fails brokenVersion and counts
// how often each version's engine is closed.
type flakyCatalog struct {
	*builtin.Catalog
	broken map[string]bool

	mu     sync.Mutex
	closes map[string]int
}

func newFlakyCatalog() *flakyCatalog {
	return &flakyCatalog{
		Catalog: builtin.NewCatalog(),
		broken:  map[string]bool{brokenVersion: true},
		closes:  make(map[string]int),
	}
}

func (c *flakyCatalog) Load(ctx context.Context, version string) (fmtplayground.Engine, error) {
	if c.broken[version] {
		return nil, stderrors.New("module not found")
	}
	e, err := c.Catalog.Load(ctx, version)
	if err != nil {
		return nil, err
	}
	return &countedEngine{Engine: e, catalog: c}, nil
}

func (c *flakyCatalog) Closes(version string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes[version]
}

type countedEngine struct {
	fmtplayground.Engine
	catalog *flakyCatalog
}

func (e *countedEngine) Close(ctx context.Context) error {
	e.catalog.mu.Lock()
	e.catalog.closes[e.Version()]++
	e.catalog.mu.Unlock()
	return e.Engine.Close(ctx)
}

func testSamples() *registry.Samples {
	return registry.NewSamples(registry.NewFSSource(fstest.MapFS{
		"examples/index.json": {Data: []byte(`["simple.pas", "hello.pas"]`)},
		"examples/simple.pas": {Data: []byte(simpleSource)},
		"examples/hello.pas":  {Data: []byte(helloSource)},
	}))
}

type fakeTimer struct {
	f     func()
	done  bool
	delay time.Duration
}

func (t *fakeTimer) Stop() bool {
	active := !t.done
	t.done = true
	return active
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) settings.Timer {
	t := &fakeTimer{f: f, delay: d}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Fire() {
	for _, t := range c.timers {
		if !t.done {
			t.done = true
			t.f()
		}
	}
}

type fixture struct {
	ctrl    *Controller
	catalog *flakyCatalog
	loop  *Loop
	mem   *ui.Memory
	clip  *ui.Clip
	clock *fakeClock
	logs  *observer.ObservedLogs
}

func newFixture(t *testing.T, versions []string, opts ...Option) *fixture {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{
		catalog: newFlakyCatalog(),
		loop:    NewLoop(),
		clip:    &ui.Clip{},
		clock:   &fakeClock{},
		logs:    logs,
	}
	base, _ := url.Parse("https://play.example/?theme=dark")
	f.mem = ui.NewMemory(base)

	reg := registry.New(staticVersions(versions), f.catalog)
	samples := testSamples()

	opts = append([]Option{
		WithDispatcher(f.loop),
		WithLogger(zap.New(core)),
		WithAfterFunc(f.clock.AfterFunc),
	}, opts...)
	f.ctrl = New(reg, samples, f.mem.Host(f.clip), opts...)
	t.Cleanup(func() {
		_ = f.ctrl.Close(context.Background())
		f.loop.Drain()
	})
	return f
}

func (f *fixture) start(t *testing.T, location string) {
	t.Helper()

	var u *url.URL
	if location != "" {
		var err error
		if u, err = url.Parse(location); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.ctrl.Start(context.Background(), u); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	f.loop.Drain()
}

// settle runs the loop until background loads and fetches have reported
// back.
func (f *fixture) settle(t *testing.T) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for {
		f.loop.Drain()
		if f.ctrl.Idle() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("controller did not settle")
		}
		time.Sleep(time.Millisecond)
	}
}

func defaults(t *testing.T, version string) string {
	t.Helper()
	e, err := builtin.NewCatalog().Load(context.Background(), version)
	if err != nil {
		t.Fatal(err)
	}
	return e.DefaultSettings()
}

func TestController_StartDefaultSample(t *testing.T) {
	f := newFixture(t, allVersions)
	f.start(t, "")

	c := f.ctrl
	if got := c.Original().Content(); got != simpleSource {
		t.Errorf("original = %q, want %q", got, simpleSource)
	}
	if got := c.Formatted().Content(); got != simpleFormatted {
		t.Errorf("formatted = %q, want %q", got, simpleFormatted)
	}
	if n := len(c.Formatted().Annotations()); n != 0 {
		t.Errorf("formatted annotations = %d, want 0", n)
	}
	if n := len(c.Settings().Annotations()); n != 0 {
		t.Errorf("settings annotations = %d, want 0", n)
	}
	if got, want := c.Settings().Content(), defaults(t, "0.5.0"); got != want {
		t.Errorf("settings = %q, want %q", got, want)
	}

	if got := c.ActiveVersion(); got != "0.5.0" {
		t.Errorf("ActiveVersion() = %q, want 0.5.0", got)
	}
	if got := f.mem.VersionSelector.Value(); got != "0.5.0" {
		t.Errorf("version selector = %q, want 0.5.0", got)
	}
	if diff := cmp.Diff(allVersions, f.mem.VersionSelector.Options()); diff != "" {
		t.Errorf("version options mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"", "simple.pas", "hello.pas"}, f.mem.SampleSelector.Options()); diff != "" {
		t.Errorf("sample options mismatch (-want +got):\n%s", diff)
	}

	if !c.SettingsValid() || !f.mem.CloseSettings.Enabled() {
		t.Error("settings should start valid with close enabled")
	}
	if f.mem.SettingsDialog.Visible() {
		t.Error("settings dialog visible after start")
	}
	if !f.mem.SideBySidePane.Visible() || f.mem.DiffPane.Visible() {
		t.Error("side-by-side should be the initial view")
	}
	if c.Surface().Ruler() <= 0 {
		t.Errorf("Ruler() = %d, want the engine line length", c.Surface().Ruler())
	}
	if c.SessionID() == "" {
		t.Error("SessionID() is empty")
	}
}

func TestController_StartWithoutEngine(t *testing.T) {
	f := newFixture(t, []string{brokenVersion})

	err := f.ctrl.Start(context.Background(), nil)
	if !stderrors.Is(err, fmterrors.ErrEngineLoad) {
		t.Fatalf("Start() error = %v, want engine load error", err)
	}
}

func TestController_EditOriginal(t *testing.T) {
	f := newFixture(t, allVersions)
	f.start(t, "")

	f.ctrl.EditOriginal("IF X THEN Y")
	if got := f.ctrl.Formatted().Content(); got != "if X then Y\n" {
		t.Errorf("formatted = %q", got)
	}

	rev := f.ctrl.Formatted().Revision()
	f.ctrl.EditOriginal("IF X THEN Y")
	if f.ctrl.Formatted().Revision() != rev {
		t.Error("unchanged source should not format again")
	}
}

func TestController_UnknownOption(t *testing.T) {
	f := newFixture(t, allVersions)
	f.start(t, "")

	c := f.ctrl
	good := c.Settings().Content()
	formatted := c.Formatted().Content()

	c.EditSettings(good + "unknown_option = 1\n")

	if c.SettingsValid() {
		t.Fatal("SettingsValid() = true after unknown option")
	}
	if f.mem.CloseSettings.Enabled() {
		t.Error("close settings enabled with invalid settings")
	}
	if n := len(c.Settings().Annotations()); n != 0 {
		t.Errorf("annotations before debounce = %d, want 0", n)
	}
	if got := c.Formatted().Content(); got != formatted {
		t.Error("invalid settings changed the formatted output")
	}

	f.clock.Fire()
	f.loop.Drain()

	anns := c.Settings().Annotations()
	if len(anns) != 1 {
		t.Fatalf("annotations after debounce = %d, want 1", len(anns))
	}
	if anns[0].Severity != document.SeverityError {
		t.Errorf("Severity = %v, want error", anns[0].Severity)
	}
	if !strings.Contains(anns[0].Message, "unknown_option") || !strings.Contains(anns[0].Message, "Caused by: ") {
		t.Errorf("Message = %q", anns[0].Message)
	}
	if anns[0].StartLine != 1 || anns[0].EndLine != c.Settings().LineCount() {
		t.Errorf("annotation spans %d..%d, want whole document", anns[0].StartLine, anns[0].EndLine)
	}

	c.EditSettings(good)

	if !c.SettingsValid() || !f.mem.CloseSettings.Enabled() {
		t.Error("reverting should make settings valid again")
	}
	if n := len(c.Settings().Annotations()); n != 0 {
		t.Errorf("annotations after revert = %d, want 0", n)
	}
}

func TestController_StaleAnnotationDropped(t *testing.T) {
	f := newFixture(t, allVersions)
	f.start(t, "")

	c := f.ctrl
	c.EditSettings("max_line_len = ")
	first := f.clock.timers[len(f.clock.timers)-1]
	c.EditSettings("max_line_lenn = 80")

	if !first.done {
		t.Error("second edit did not cancel the first task")
	}
	if got := f.clock.timers[len(f.clock.timers)-1].delay; got != settings.DefaultDelay {
		t.Errorf("delay = %v, want %v", got, settings.DefaultDelay)
	}

	f.clock.Fire()
	f.loop.Drain()

	anns := c.Settings().Annotations()
	if len(anns) != 1 || !strings.Contains(anns[0].Message, "max_line_lenn") {
		t.Errorf("annotations = %+v, want one for the latest text", anns)
	}
}

func TestController_SettingsDialog(t *testing.T) {
	f := newFixture(t, allVersions)
	f.start(t, "")

	c := f.ctrl
	f.mem.OpenSettings.Click()
	if !f.mem.SettingsDialog.Visible() {
		t.Fatal("dialog not shown")
	}

	c.EditSettings("line_ending = \"cr\"")
	if f.mem.CloseSettings.Click() {
		t.Error("close settings accepted a click while disabled")
	}
	if c.CloseSettings() {
		t.Error("CloseSettings() = true with invalid settings")
	}
	if !f.mem.SettingsDialog.Visible() {
		t.Error("dialog closed with invalid settings")
	}

	f.mem.ResetSettings.Click()
	if got, want := c.Settings().Content(), defaults(t, "0.5.0"); got != want {
		t.Errorf("settings after reset = %q, want %q", got, want)
	}
	if !f.mem.CloseSettings.Click() {
		t.Fatal("close settings disabled after reset")
	}
	if f.mem.SettingsDialog.Visible() {
		t.Error("dialog still shown after close")
	}
}

func TestController_SettingsApplied(t *testing.T) {
	f := newFixture(t, allVersions)
	f.start(t, "")

	c := f.ctrl
	c.EditSettings("lowercase_keywords = false\nmax_line_len = 60\n")

	if got := c.Formatted().Content(); got != strings.ReplaceAll(simpleSource, "   \n", "\n") {
		t.Errorf("formatted = %q", got)
	}
	if got := c.Surface().Ruler(); got != 60 {
		t.Errorf("Ruler() = %d, want 60", got)
	}
}

func TestController_SelectVersionReconciles(t *testing.T) {
	f := newFixture(t, allVersions)
	f.start(t, "")

	c := f.ctrl
	original := c.Settings().Content()

	if !f.mem.VersionSelector.Input("0.3.0") {
		t.Fatal("version selector rejected input")
	}
	if f.mem.VersionSelector.Enabled() || !c.Loading() {
		t.Error("selector should be disabled while loading")
	}
	f.settle(t)

	if got := c.ActiveVersion(); got != "0.3.0" {
		t.Fatalf("ActiveVersion() = %q, want 0.3.0", got)
	}
	if !f.mem.VersionSelector.Enabled() {
		t.Error("selector still disabled")
	}

	want := settings.Reconcile(original, defaults(t, "0.3.0"))
	if got := c.Settings().Content(); got != want {
		t.Errorf("settings = %q, want %q", got, want)
	}
	for _, key := range []string{builtin.KeyMaxBlankLines, builtin.KeyLineEnding, builtin.KeyTabWidth} {
		if !strings.Contains(c.Settings().Content(), settings.UnavailableMarker+key) {
			t.Errorf("%s not marked unavailable", key)
		}
	}
	if !c.SettingsValid() {
		t.Error("reconciled settings should be valid")
	}
	if got := c.Formatted().Content(); got != simpleFormatted {
		t.Errorf("formatted = %q", got)
	}

	f.mem.VersionSelector.Input("0.5.0")
	f.settle(t)

	if got := c.Settings().Content(); got != original {
		t.Errorf("settings after switching back = %q, want %q", got, original)
	}
}

func TestController_FailedLoadKeepsOutput(t *testing.T) {
	f := newFixture(t, allVersions)
	f.start(t, "")

	c := f.ctrl
	c.EditOriginal("BEGIN END")
	formatted := c.Formatted().Content()
	rev := c.Formatted().Revision()

	f.mem.VersionSelector.Input(brokenVersion)
	f.settle(t)

	if got := c.ActiveVersion(); got != "0.5.0" {
		t.Errorf("ActiveVersion() = %q, want 0.5.0", got)
	}
	if got := f.mem.VersionSelector.Value(); got != "0.5.0" {
		t.Errorf("selector = %q, want the active version", got)
	}
	if !f.mem.VersionSelector.Enabled() {
		t.Error("selector not re-enabled")
	}
	if got := c.Formatted().Content(); got != formatted || c.Formatted().Revision() != rev {
		t.Errorf("formatted changed to %q", got)
	}
	if n := len(c.Formatted().Annotations()); n != 0 {
		t.Errorf("formatted annotations = %d, want 0", n)
	}

	entries := f.logs.FilterMessage("failed to load engine version").All()
	if len(entries) != 1 {
		t.Fatalf("failure logged %d times, want 1", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Errorf("Level = %v, want error", entries[0].Level)
	}
	if got := entries[0].ContextMap()["version"]; got != brokenVersion {
		t.Errorf("logged version = %v, want %s", got, brokenVersion)
	}
}

func TestController_ConcurrentLoads(t *testing.T) {
	f := newFixture(t, allVersions)
	f.start(t, "")

	f.ctrl.SelectVersion("0.4.0")
	f.ctrl.SelectVersion("0.3.0")
	f.settle(t)

	active := f.ctrl.ActiveVersion()
	if active != "0.4.0" && active != "0.3.0" {
		t.Fatalf("ActiveVersion() = %q", active)
	}
	if got := f.mem.VersionSelector.Value(); got != active {
		t.Errorf("selector = %q, want %q", got, active)
	}
	if !f.ctrl.SettingsValid() {
		t.Error("settings invalid after loads")
	}
}

func TestController_SelectSample(t *testing.T) {
	f := newFixture(t, allVersions)
	f.start(t, "")

	c := f.ctrl
	f.mem.SampleSelector.Input("hello.pas")
	if got := f.mem.SampleSelector.Value(); got != "" {
		t.Errorf("sample selector = %q, want reset", got)
	}
	f.settle(t)

	if got := c.Original().Content(); got != helloSource {
		t.Errorf("original = %q, want %q", got, helloSource)
	}
	if got := c.Formatted().Content(); got != "begin WriteLn('Hello') end.\n" {
		t.Errorf("formatted = %q", got)
	}

	f.mem.SampleSelector.Input("")
	f.settle(t)
	if got := c.Original().Content(); got != "" {
		t.Errorf("original after clearing = %q", got)
	}
	if got := c.Formatted().Content(); got != "" {
		t.Errorf("formatted after clearing = %q", got)
	}
}

func TestController_SelectMissingSample(t *testing.T) {
	f := newFixture(t, allVersions)
	f.start(t, "")

	f.ctrl.SelectSample("missing.pas")
	f.settle(t)

	if got := f.ctrl.Original().Content(); got != simpleSource {
		t.Errorf("original = %q, want it unchanged", got)
	}
	if f.logs.FilterMessage("failed to load sample").Len() != 1 {
		t.Error("sample failure not logged")
	}
}

func TestController_ToggleView(t *testing.T) {
	f := newFixture(t, allVersions)
	f.start(t, "")

	c := f.ctrl
	origRev, fmtRev := c.Original().Revision(), c.Formatted().Revision()

	f.mem.ToggleView.Click()
	if !c.Surface().DiffActive() || !f.mem.DiffPane.Visible() || f.mem.SideBySidePane.Visible() {
		t.Error("first toggle should show the diff")
	}
	if d := c.Surface().Diff(); !strings.Contains(d, "-PROGRAM Simple;") || !strings.Contains(d, "+program Simple;") {
		t.Errorf("Diff() = %q", d)
	}

	f.mem.ToggleView.Click()
	if c.Surface().DiffActive() || f.mem.DiffPane.Visible() || !f.mem.SideBySidePane.Visible() {
		t.Error("second toggle should restore side-by-side")
	}
	if c.Original().Revision() != origRev || c.Formatted().Revision() != fmtRev {
		t.Error("toggling changed document content")
	}
}

func TestController_ShareRoundTrip(t *testing.T) {
	f := newFixture(t, allVersions)
	f.start(t, "")

	source := "BEGIN\n  S := 'ünïcødé ✓ 𝄞';\nEND.\n"
	f.ctrl.EditOriginal(source)
	f.ctrl.SelectVersion("0.4.0")
	f.settle(t)
	settingsText := f.ctrl.Settings().Content()

	f.mem.Share.Click()

	if f.mem.Location.Replaced() != 1 {
		t.Fatalf("location replaced %d times, want 1", f.mem.Location.Replaced())
	}
	link := f.mem.Location.URL().String()
	if f.clip.Text() != link {
		t.Errorf("clipboard = %q, want %q", f.clip.Text(), link)
	}
	if got := f.mem.Location.URL().Query().Get("theme"); got != "dark" {
		t.Errorf("unrelated parameter lost: theme = %q", got)
	}

	g := newFixture(t, allVersions)
	g.start(t, link)

	if got := g.ctrl.Original().Content(); got != source {
		t.Errorf("original = %q, want %q", got, source)
	}
	if got := g.ctrl.Settings().Content(); got != settingsText {
		t.Errorf("settings = %q, want %q", got, settingsText)
	}
	if got := g.ctrl.ActiveVersion(); got != "0.4.0" {
		t.Errorf("ActiveVersion() = %q, want 0.4.0", got)
	}
	if got := g.ctrl.Formatted().Content(); got != f.ctrl.Formatted().Content() {
		t.Errorf("shared session formats to %q, want %q", got, f.ctrl.Formatted().Content())
	}
}

func TestController_SharedVersionFallback(t *testing.T) {
	tests := []struct {
		name    string
		version string
		message string
	}{
		{name: "unknown", version: "9.9.9", message: "invalid version from share parameters"},
		{name: "fails to load", version: brokenVersion, message: "shared version failed to load, using default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, allVersions)
			u := f.mem.Location.URL()
			u.RawQuery = url.Values{share.ParamVersion: {base64.RawURLEncoding.EncodeToString([]byte(tt.version))}}.Encode()
			f.start(t, u.String())

			if got := f.ctrl.ActiveVersion(); got != "0.5.0" {
				t.Errorf("ActiveVersion() = %q, want 0.5.0", got)
			}
			if got := f.mem.VersionSelector.Value(); got != "0.5.0" {
				t.Errorf("selector = %q, want 0.5.0", got)
			}
			if f.logs.FilterMessage(tt.message).Len() != 1 {
				t.Errorf("%q not logged", tt.message)
			}
		})
	}
}

func TestController_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := newFixture(t, allVersions, WithMetrics(NewMetrics(reg)))
	f.start(t, "")

	f.ctrl.EditSettings("nope = 1")
	f.ctrl.SelectVersion(brokenVersion)
	f.settle(t)

	tests := []struct {
		metric string
		labels map[string]string
		want   float64
	}{
		{metric: "fmtplay_engine_loads_total", labels: map[string]string{"outcome": "ok"}, want: 1},
		{metric: "fmtplay_engine_loads_total", labels: map[string]string{"outcome": "error"}, want: 1},
		{metric: "fmtplay_settings_validations_total", labels: map[string]string{"outcome": "ok"}, want: 1},
		{metric: "fmtplay_settings_validations_total", labels: map[string]string{"outcome": "error"}, want: 1},
		{metric: "fmtplay_format_runs_total", labels: map[string]string{"outcome": "ok"}, want: 1},
	}
	for _, tt := range tests {
		if got := counterValue(t, reg, tt.metric, tt.labels); got != tt.want {
			t.Errorf("%s%v = %v, want %v", tt.metric, tt.labels, got, tt.want)
		}
	}
}

func TestController_Close(t *testing.T) {
	f := newFixture(t, allVersions)
	f.start(t, "")

	if err := f.ctrl.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	f.mem.ToggleView.Click()
	if f.ctrl.Surface().DiffActive() {
		t.Error("handler still subscribed after Close")
	}
}

func TestController_CloseTwice(t *testing.T) {
	f := newFixture(t, allVersions)
	f.start(t, "")

	for range 2 {
		if err := f.ctrl.Close(context.Background()); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	}
	if got := f.catalog.Closes("0.5.0"); got != 1 {
		t.Errorf("0.5.0 closed %d times, want 1", got)
	}
}

func TestController_LoadLandingAfterClose(t *testing.T) {
	f := newFixture(t, allVersions)
	f.start(t, "")

	f.ctrl.SelectVersion("0.3.0")
	if err := f.ctrl.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	f.settle(t)

	for _, v := range []string{"0.5.0", "0.3.0"} {
		if got := f.catalog.Closes(v); got != 1 {
			t.Errorf("%s closed %d times, want 1", v, got)
		}
	}
	if got := f.ctrl.Settings().Content(); got != defaults(t, "0.5.0") {
		t.Errorf("settings reconciled after Close: %q", got)
	}

	f.ctrl.SelectVersion("0.4.0")
	f.ctrl.SelectSample("hello.pas")
	if !f.ctrl.Idle() {
		t.Error("handlers started work after Close")
	}
}

func TestController_WithoutDispatcher(t *testing.T) {
	catalog := newFlakyCatalog()
	reg := registry.New(staticVersions(allVersions), catalog)
	mem := ui.NewMemory(nil)
	ctrl := New(reg, testSamples(), mem.Host(&ui.Clip{}))

	ctx := context.Background()
	if err := ctrl.Start(ctx, nil); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer ctrl.Close(ctx)

	// Loads run inside the handler, so each step observes the previous
	// one completely.
	for i := range 50 {
		mem.VersionSelector.Input("0.3.0")
		if got := ctrl.ActiveVersion(); got != "0.3.0" || !ctrl.Idle() {
			t.Fatalf("after selecting 0.3.0: active = %q, idle = %v", got, ctrl.Idle())
		}

		ctrl.EditOriginal(fmt.Sprintf("BEGIN %d END.", i))
		want := fmt.Sprintf("begin %d end.\n", i)
		if got := ctrl.Formatted().Content(); got != want {
			t.Fatalf("formatted = %q, want %q", got, want)
		}

		ctrl.SelectVersion("0.5.0")
		if got := ctrl.ActiveVersion(); got != "0.5.0" {
			t.Fatalf("active = %q, want 0.5.0", got)
		}
	}
	if !mem.VersionSelector.Enabled() {
		t.Error("version selector left disabled")
	}

	ctrl.SelectSample("hello.pas")
	if got := ctrl.Original().Content(); got != helloSource {
		t.Errorf("original = %q, want %q", got, helloSource)
	}
	if got := catalog.Closes("0.3.0"); got != 50 {
		t.Errorf("0.3.0 closed %d times, want 50", got)
	}
}
