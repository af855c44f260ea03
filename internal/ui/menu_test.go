package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"makebuilder/internal/anim"
	"makebuilder/internal/section"
	"makebuilder/internal/store"
	"makebuilder/internal/templates"
	"makebuilder/internal/trace"
)

type fixedNumbers struct{ next int64 }

func (f *fixedNumbers) Next() int64 {
	f.next++
	return f.next
}

type recordingEditors struct {
	inits    []string
	released []string
}

func (r *recordingEditors) InitAll(viewID string, _ section.Section) {
	r.inits = append(r.inits, viewID)
}

func (r *recordingEditors) Release(viewID string) int {
	r.released = append(r.released, viewID)
	return 1
}

type controllerFixture struct {
	ctrl     *MenuController
	sections *section.Collection
	driver   *anim.Recorder
	editors  *recordingEditors
	settings *store.MemorySettings
}

func newControllerFixture(t *testing.T, numbers section.NumberSource) *controllerFixture {
	t.Helper()
	catalog, err := templates.Default()
	require.NoError(t, err)

	f := &controllerFixture{
		sections: section.NewCollection(nil),
		driver:   &anim.Recorder{},
		editors:  &recordingEditors{},
		settings: store.NewMemorySettings(),
	}
	f.ctrl = NewMenuController(MenuDeps{
		Sections: f.sections,
		Numbers:  numbers,
		Catalog:  catalog,
		Stage:    NewStage(16),
		Panel:    NewPanel(42, f.settings, f.driver, PanelOptions{}),
		Editors:  f.editors,
		Driver:   f.driver,
		Scroll:   DefaultScrollOptions(),
	})
	t.Cleanup(f.ctrl.Close)
	return f
}

func click(slug string) *ClickEvent {
	return NewClickEvent(map[string]string{SectionAttr: slug})
}

func scrollSpecs(rec *anim.Recorder) []anim.Spec {
	var out []anim.Spec
	for _, s := range rec.Started() {
		if strings.HasPrefix(s.ID, "stage-scroll-") {
			out = append(out, s)
		}
	}
	return out
}

func TestAddSection_SanitizesTypeAndPreventsDefault(t *testing.T) {
	f := newControllerFixture(t, nil)
	before := time.Now().UnixMilli()

	ev := click("hero-banner!")
	f.ctrl.AddSection(ev)

	assert.True(t, ev.DefaultPrevented())
	require.Equal(t, 1, f.sections.Len())
	s := f.sections.All()[0]
	assert.Equal(t, "herobanner", s.Type)
	assert.GreaterOrEqual(t, s.Number, before)
}

func TestAddSection_MissingAttributeCreatesEmptyType(t *testing.T) {
	f := newControllerFixture(t, &fixedNumbers{next: 100})

	f.ctrl.AddSection(NewClickEvent(nil))

	require.Equal(t, 1, f.sections.Len())
	assert.Equal(t, "", f.sections.All()[0].Type)
	require.Equal(t, 1, f.ctrl.Stage().Len())
	assert.False(t, f.ctrl.Stage().Views()[0].Known())
}

func TestAddSection_MountsOneViewPerSection(t *testing.T) {
	f := newControllerFixture(t, nil)

	const n = 5
	for range n {
		f.ctrl.AddSection(click("text"))
	}

	all := f.sections.All()
	views := f.ctrl.Stage().Views()
	require.Len(t, views, n)
	seen := make(map[int64]bool)
	for i, s := range all {
		assert.False(t, seen[s.Number], "duplicate number %d", s.Number)
		seen[s.Number] = true
		assert.Equal(t, s.ViewID(), views[i].ID)
	}
	assert.Len(t, f.editors.inits, n)
	assert.Len(t, scrollSpecs(f.driver), n)
}

func TestAddOne_ScrollsToSectionMinusAllowance(t *testing.T) {
	f := newControllerFixture(t, &fixedNumbers{next: 1})

	f.ctrl.AddSection(click("text"))
	first := scrollSpecs(f.driver)[0]
	assert.Equal(t, 0.0, first.To, "target clamps at zero")
	assert.Equal(t, 800*time.Millisecond, first.Duration)
	assert.Equal(t, anim.EaseOutQuad, first.Easing)

	f.ctrl.AddSection(click("banner"))
	f.ctrl.AddSection(click("gallery"))

	stage := f.ctrl.Stage()
	last := stage.Views()[2]
	top, ok := stage.OffsetTop(last.ID)
	require.True(t, ok)
	want := stage.Views()[0].Lines()*16 + stage.Views()[1].Lines()*16
	assert.Equal(t, want, top)

	spec := scrollSpecs(f.driver)[2]
	assert.Equal(t, float64(max(0, top-41)), spec.To)

	_, handled := f.ctrl.Update(f.driver.Done())
	require.True(t, handled)
	assert.Equal(t, spec.To, stage.ScrollTop())
}

func TestAddOne_NewerScrollReplacesOlder(t *testing.T) {
	f := newControllerFixture(t, nil)
	f.ctrl.AddSection(click("text"))
	f.ctrl.AddSection(click("text"))
	specs := scrollSpecs(f.driver)
	require.Len(t, specs, 2)

	_, handled := f.ctrl.Update(anim.DoneMsg{ID: specs[0].ID, Value: 999})
	assert.False(t, handled)
	assert.Equal(t, 0.0, f.ctrl.Stage().ScrollTop())
}

func TestAddOne_UpdatesStageClassAndEditors(t *testing.T) {
	f := newControllerFixture(t, nil)
	assert.Equal(t, section.StageEmptyClass, f.ctrl.Stage().Class())

	f.ctrl.AddSection(click("banner"))

	assert.Equal(t, "", f.ctrl.Stage().Class())
	require.Len(t, f.editors.inits, 1)
	assert.Equal(t, f.sections.All()[0].ViewID(), f.editors.inits[0])
}

func TestAddOne_UnknownTypeSuggestsClosest(t *testing.T) {
	f := newControllerFixture(t, nil)
	f.ctrl.AddSection(click("bannr"))

	v := f.ctrl.Stage().Views()[0]
	assert.False(t, v.Known())
	assert.Contains(t, v.El(), `did you mean "banner"?`)
}

func TestRemoveSection_DisposesView(t *testing.T) {
	f := newControllerFixture(t, nil)
	f.ctrl.AddSection(click("text"))
	f.ctrl.AddSection(click("banner"))
	views := f.ctrl.Stage().Views()
	s := f.sections.All()[0]

	f.ctrl.RemoveSection(s.Number)

	assert.Equal(t, 1, f.sections.Len())
	assert.Equal(t, 1, f.ctrl.Stage().Len())
	assert.True(t, views[0].Disposed())
	assert.False(t, views[1].Disposed())
	assert.Equal(t, []string{s.ViewID()}, f.editors.released)

	f.ctrl.RemoveSection(f.sections.All()[0].Number)
	assert.Equal(t, section.StageEmptyClass, f.ctrl.Stage().Class())
}

func TestMoveSection_ReordersStage(t *testing.T) {
	f := newControllerFixture(t, nil)
	for _, slug := range []string{"text", "banner", "gallery"} {
		f.ctrl.AddSection(click(slug))
	}
	first := f.sections.All()[0]

	f.ctrl.MoveSection(first.Number, 2)

	all := f.sections.All()
	views := f.ctrl.Stage().Views()
	require.Len(t, views, 3)
	for i := range all {
		assert.Equal(t, all[i].ViewID(), views[i].ID)
	}
	assert.Equal(t, first.ViewID(), views[2].ID)
}

func TestUpdateFields_RerendersView(t *testing.T) {
	f := newControllerFixture(t, nil)
	f.ctrl.AddSection(click("text"))
	s := f.sections.All()[0]

	f.ctrl.UpdateFields(s.Number, map[string]string{"title": "Welcome aboard"})

	v, ok := f.ctrl.Stage().Lookup(s.ViewID())
	require.True(t, ok)
	assert.Equal(t, "Welcome aboard", v.Model.Field("title"))
	assert.Contains(t, v.El(), "Welcome aboard")
}

func TestLoad_MountsWithoutScrolling(t *testing.T) {
	f := newControllerFixture(t, nil)
	f.ctrl.AddSection(click("text"))
	old := f.ctrl.Stage().Views()[0]
	scrolls := len(scrollSpecs(f.driver))

	f.ctrl.Load([]section.Section{
		{Type: "banner", Number: 10},
		{Type: "gallery", Number: 11},
	})

	assert.True(t, old.Disposed())
	views := f.ctrl.Stage().Views()
	require.Len(t, views, 2)
	assert.Equal(t, "ttf-one-section-10", views[0].ID)
	assert.Equal(t, "ttf-one-section-11", views[1].ID)
	assert.Len(t, scrollSpecs(f.driver), scrolls)
	assert.Equal(t, 0.0, f.ctrl.Stage().ScrollTop())
}

func TestClose_StopsListening(t *testing.T) {
	f := newControllerFixture(t, nil)
	f.ctrl.AddSection(click("text"))
	view := f.ctrl.Stage().Views()[0]

	f.ctrl.Close()
	assert.True(t, view.Disposed())

	f.sections.Create(section.Attributes{Type: "banner", Number: 1})
	assert.Equal(t, 0, f.ctrl.Stage().Len())
}

func TestMenuToggle_PreventsDefaultAndPersistsOnCompletion(t *testing.T) {
	f := newControllerFixture(t, nil)

	ev := NewClickEvent(nil)
	f.ctrl.MenuToggle(ev)
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, PanelClosing, f.ctrl.Panel().State())
	assert.Empty(t, f.settings.Snapshot())

	_, handled := f.ctrl.Update(f.driver.Done())
	require.True(t, handled)
	assert.Equal(t, map[string]string{"ttfonemt42": "c"}, f.settings.Snapshot())
	assert.Equal(t, MenuClosedClass, f.ctrl.Panel().Class())
}

func TestMenuToggle_AddDuringSlideStillMounts(t *testing.T) {
	f := newControllerFixture(t, nil)
	f.ctrl.MenuToggle(NewClickEvent(nil))
	f.ctrl.AddSection(click("text"))

	assert.Equal(t, 1, f.ctrl.Stage().Len())
	assert.Equal(t, PanelClosing, f.ctrl.Panel().State())
}

func TestController_RecordsSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	sections := section.NewCollection(nil)
	c := NewMenuController(MenuDeps{
		Sections: sections,
		Numbers:  &fixedNumbers{next: 7},
		Driver:   &anim.Recorder{},
		Tracer:   trace.New(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))),
	})
	defer c.Close()

	c.AddSection(click("text"))
	c.MenuToggle(NewClickEvent(nil))
	c.RemoveSection(8)

	var names []string
	for _, s := range sr.Ended() {
		names = append(names, s.Name())
	}
	// add_one ends inside add_section's listener call.
	assert.Equal(t, []string{
		trace.SpanAddOne,
		trace.SpanAddSection,
		trace.SpanMenuToggle,
		trace.SpanRemoveSection,
	}, names)
}
