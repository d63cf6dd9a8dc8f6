package binding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/espcam/campanel/pkg/control"
)

type mockWriter struct{ mock.Mock }

func (m *mockWriter) SetOne(_ context.Context, id control.Identifier, v control.Value) error {
	args := m.Called(id, v.Encode())
	return args.Error(0)
}

func newEngine(t *testing.T, hydrate control.Snapshot) (*Engine, *mockWriter) {
	t.Helper()
	w := &mockWriter{}
	e := New(control.ESP32(), w, nil)
	if hydrate != nil {
		e.Hydrate(hydrate)
	}
	return e, w
}

func value(t *testing.T, e *Engine, id control.Identifier) control.Value {
	t.Helper()
	v, ok := e.Value(id)
	require.True(t, ok, "no value for %s", id)
	return v
}

func TestHydrateIsSilent(t *testing.T) {
	e, w := newEngine(t, control.Snapshot{
		control.ExposureControl:  control.Bool(true),
		control.GainControl:      control.Bool(false),
		control.WhiteBalanceGain: control.Bool(false),
		control.FrameResolution:  control.Choice("9"),
		control.FaceDetection:    control.Bool(true),
	})

	w.AssertNotCalled(t, "SetOne", mock.Anything, mock.Anything)
	assert.True(t, e.Hydrated())

	view := e.View()
	assert.False(t, view.GroupVisible(control.GroupExposureValue))
	assert.False(t, view.GroupVisible(control.GroupGainCeiling))
	assert.True(t, view.GroupVisible(control.GroupManualGain))
	assert.False(t, view.GroupVisible(control.GroupWhiteBalanceMode))

	assert.Equal(t, control.Choice("9"), value(t, e, control.FrameResolution))
}

func TestHydrateAppliesResolutionGate(t *testing.T) {
	e, w := newEngine(t, control.Snapshot{
		control.FrameResolution: control.Choice("9"),
		control.FaceDetection:   control.Bool(true),
		control.FaceRecognition: control.Bool(true),
	})

	assert.Equal(t, control.Bool(false), value(t, e, control.FaceDetection))
	assert.Equal(t, control.Bool(false), value(t, e, control.FaceRecognition))
	assert.False(t, e.View().ControlEnabled(control.FaceEnroll))
	w.AssertNotCalled(t, "SetOne", mock.Anything, mock.Anything)
}

func TestHydrateKeepsFaceFeaturesAtCIF(t *testing.T) {
	e, w := newEngine(t, control.Snapshot{
		control.FrameResolution: control.Choice("5"),
		control.FaceDetection:   control.Bool(true),
		control.FaceRecognition: control.Bool(true),
	})

	assert.Equal(t, control.Bool(true), value(t, e, control.FaceDetection))
	assert.Equal(t, control.Bool(true), value(t, e, control.FaceRecognition))
	assert.True(t, e.View().ControlEnabled(control.FaceEnroll))
	w.AssertNotCalled(t, "SetOne", mock.Anything, mock.Anything)
}

func TestHydrateKeepsDefaultsForMissingKeys(t *testing.T) {
	e, _ := newEngine(t, control.Snapshot{control.VerticalFlip: control.Bool(true)})
	assert.Equal(t, control.Bool(true), value(t, e, control.VerticalFlip))
	assert.Equal(t, control.Number(204), value(t, e, control.ExposureValue))
	assert.Equal(t, control.Choice("4"), value(t, e, control.FrameResolution))
}

func TestHydrateRenormalizesMismatchedKinds(t *testing.T) {
	e, _ := newEngine(t, control.Snapshot{
		control.ExposureControl: control.Choice("0"),
		control.ImageQuality:    control.Choice("not a number"),
	})
	assert.Equal(t, control.Bool(false), value(t, e, control.ExposureControl))
	assert.Equal(t, control.Number(10), value(t, e, control.ImageQuality))
	assert.True(t, e.View().GroupVisible(control.GroupExposureValue))
}

func TestDefaultsProduceInitialView(t *testing.T) {
	e, _ := newEngine(t, nil)
	view := e.View()
	assert.False(t, e.Hydrated())
	assert.False(t, view.GroupVisible(control.GroupExposureValue))
	assert.True(t, view.GroupVisible(control.GroupGainCeiling))
	assert.False(t, view.GroupVisible(control.GroupManualGain))
	assert.True(t, view.GroupVisible(control.GroupWhiteBalanceMode))
	assert.False(t, view.ControlEnabled(control.FaceEnroll))
}

func TestGainToggleScenario(t *testing.T) {
	e, w := newEngine(t, control.Snapshot{control.GainControl: control.Bool(false)})
	require.True(t, e.View().GroupVisible(control.GroupManualGain))

	w.On("SetOne", control.GainControl, "1").Return(nil).Once()
	v, err := e.ApplyUserEdit(context.Background(), control.GainControl, true)
	require.NoError(t, err)
	assert.Equal(t, control.Bool(true), v)

	view := e.View()
	assert.True(t, view.GroupVisible(control.GroupGainCeiling))
	assert.False(t, view.GroupVisible(control.GroupManualGain))
	w.AssertExpectations(t)
	w.AssertNumberOfCalls(t, "SetOne", 1)
}

func TestDependentGroupRules(t *testing.T) {
	tests := []struct {
		name    string
		id      control.Identifier
		raw     any
		visible map[string]bool
	}{
		{name: "aec on hides exposure", id: control.ExposureControl, raw: true,
			visible: map[string]bool{control.GroupExposureValue: false}},
		{name: "aec off shows exposure", id: control.ExposureControl, raw: false,
			visible: map[string]bool{control.GroupExposureValue: true}},
		{name: "agc off", id: control.GainControl, raw: "0",
			visible: map[string]bool{control.GroupGainCeiling: false, control.GroupManualGain: true}},
		{name: "awb gain on", id: control.WhiteBalanceGain, raw: 1,
			visible: map[string]bool{control.GroupWhiteBalanceMode: true}},
		{name: "awb gain off", id: control.WhiteBalanceGain, raw: "off",
			visible: map[string]bool{control.GroupWhiteBalanceMode: false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, w := newEngine(t, nil)
			w.On("SetOne", mock.Anything, mock.Anything).Return(nil)
			_, err := e.ApplyUserEdit(context.Background(), tt.id, tt.raw)
			require.NoError(t, err)
			for group, want := range tt.visible {
				assert.Equal(t, want, e.View().GroupVisible(group), group)
			}
		})
	}
}

func TestRulesAreIdempotent(t *testing.T) {
	e, w := newEngine(t, control.Snapshot{control.GainControl: control.Bool(false)})
	w.On("SetOne", control.GainControl, "1").Return(nil).Once()

	_, err := e.ApplyUserEdit(context.Background(), control.GainControl, true)
	require.NoError(t, err)
	once := e.View()
	snap := e.Snapshot()

	_, err = e.ApplyUserEdit(context.Background(), control.GainControl, true)
	require.NoError(t, err)
	assert.Equal(t, once, e.View())
	assert.Equal(t, snap, e.Snapshot())
	// The second edit changed nothing, so nothing more is written.
	w.AssertNumberOfCalls(t, "SetOne", 1)
}

func TestDisablingDetectionChainsToRecognition(t *testing.T) {
	e, w := newEngine(t, control.Snapshot{
		control.FaceDetection:   control.Bool(true),
		control.FaceRecognition: control.Bool(true),
	})
	require.True(t, e.View().ControlEnabled(control.FaceEnroll))

	w.On("SetOne", control.FaceDetection, "0").Return(nil).Once()
	_, err := e.ApplyUserEdit(context.Background(), control.FaceDetection, false)
	require.NoError(t, err)

	assert.Equal(t, control.Bool(false), value(t, e, control.FaceDetection))
	assert.Equal(t, control.Bool(false), value(t, e, control.FaceRecognition))
	assert.False(t, e.View().ControlEnabled(control.FaceEnroll))
	w.AssertExpectations(t)
	w.AssertNumberOfCalls(t, "SetOne", 1)
}

func TestEnablingRecognitionForcesDetection(t *testing.T) {
	e, w := newEngine(t, nil)
	w.On("SetOne", control.FaceRecognition, "1").Return(nil).Once()

	_, err := e.ApplyUserEdit(context.Background(), control.FaceRecognition, true)
	require.NoError(t, err)

	assert.Equal(t, control.Bool(true), value(t, e, control.FaceDetection))
	assert.True(t, e.View().ControlEnabled(control.FaceEnroll))
	w.AssertNumberOfCalls(t, "SetOne", 1)
}

func TestHighResolutionForcesFaceFeaturesOff(t *testing.T) {
	e, w := newEngine(t, control.Snapshot{
		control.FrameResolution: control.Choice("5"),
		control.FaceDetection:   control.Bool(true),
		control.FaceRecognition: control.Bool(true),
	})
	w.On("SetOne", control.FrameResolution, "8").Return(nil).Once()

	_, err := e.ApplyUserEdit(context.Background(), control.FrameResolution, "8")
	require.NoError(t, err)

	assert.Equal(t, control.Bool(false), value(t, e, control.FaceDetection))
	assert.Equal(t, control.Bool(false), value(t, e, control.FaceRecognition))
	assert.False(t, e.View().ControlEnabled(control.FaceEnroll))
	w.AssertNumberOfCalls(t, "SetOne", 1)
}

func TestCIFKeepsFaceFeatures(t *testing.T) {
	e, w := newEngine(t, control.Snapshot{
		control.FrameResolution: control.Choice("8"),
		control.FaceDetection:   control.Bool(false),
	})
	w.On("SetOne", control.FrameResolution, "5").Return(nil).Once()
	w.On("SetOne", control.FaceDetection, "1").Return(nil).Once()

	_, err := e.ApplyUserEdit(context.Background(), control.FrameResolution, 5)
	require.NoError(t, err)
	_, err = e.ApplyUserEdit(context.Background(), control.FaceDetection, true)
	require.NoError(t, err)
	assert.Equal(t, control.Bool(true), value(t, e, control.FaceDetection))
	w.AssertExpectations(t)
}

func TestResolutionGuard(t *testing.T) {
	for _, id := range []control.Identifier{control.FaceDetection, control.FaceRecognition} {
		t.Run(string(id), func(t *testing.T) {
			e, w := newEngine(t, control.Snapshot{
				control.FrameResolution: control.Choice("9"),
				control.FaceDetection:   control.Bool(false),
				control.FaceRecognition: control.Bool(false),
			})

			v, err := e.ApplyUserEdit(context.Background(), id, true)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, id, verr.Control)
			assert.Equal(t, ResolutionWarning, verr.Warning)
			assert.Equal(t, control.Bool(false), v)
			assert.Equal(t, control.Bool(false), value(t, e, id))
			w.AssertNotCalled(t, "SetOne", mock.Anything, mock.Anything)
		})
	}
}

func TestResolutionGuardAllowsDisabling(t *testing.T) {
	w := &mockWriter{}
	// Guards only, so hydration leaves detection on above CIF.
	e := NewWithRules(control.ESP32(), w, nil, nil, DefaultGuards())
	e.Hydrate(control.Snapshot{
		control.FrameResolution: control.Choice("9"),
		control.FaceDetection:   control.Bool(true),
	})
	require.Equal(t, control.Bool(true), value(t, e, control.FaceDetection))
	w.On("SetOne", control.FaceDetection, "0").Return(nil).Once()
	_, err := e.ApplyUserEdit(context.Background(), control.FaceDetection, false)
	require.NoError(t, err)
	w.AssertExpectations(t)
}

func TestEnrollTrigger(t *testing.T) {
	e, w := newEngine(t, nil)

	_, err := e.ApplyUserEdit(context.Background(), control.FaceEnroll, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	w.AssertNotCalled(t, "SetOne", mock.Anything, mock.Anything)

	w.On("SetOne", control.FaceRecognition, "1").Return(nil).Once()
	w.On("SetOne", control.FaceEnroll, "1").Return(nil).Twice()
	_, err = e.ApplyUserEdit(context.Background(), control.FaceRecognition, true)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = e.ApplyUserEdit(context.Background(), control.FaceEnroll, nil)
		require.NoError(t, err)
	}
	w.AssertExpectations(t)
}

func TestFailedWriteKeepsLocalValue(t *testing.T) {
	e, w := newEngine(t, control.Snapshot{control.ExposureControl: control.Bool(true)})
	w.On("SetOne", control.ExposureControl, "0").Return(errors.New("unreachable")).Once()

	_, err := e.ApplyUserEdit(context.Background(), control.ExposureControl, false)
	require.NoError(t, err)
	assert.Equal(t, control.Bool(false), value(t, e, control.ExposureControl))
	assert.True(t, e.View().GroupVisible(control.GroupExposureValue))
}

func TestApplyUserEditErrors(t *testing.T) {
	e, w := newEngine(t, nil)

	_, err := e.ApplyUserEdit(context.Background(), "zoom", 1)
	assert.ErrorIs(t, err, control.ErrUnknownControl)

	_, err = e.ApplyUserEdit(context.Background(), control.ImageQuality, "best")
	assert.ErrorIs(t, err, control.ErrInvalidValue)
	w.AssertNotCalled(t, "SetOne", mock.Anything, mock.Anything)
}

func TestProgrammaticOverrideNeverWrites(t *testing.T) {
	e, w := newEngine(t, control.Snapshot{
		control.FaceDetection:   control.Bool(true),
		control.FaceRecognition: control.Bool(true),
	})

	require.NoError(t, e.ApplyProgrammaticOverride(control.FaceDetection, control.Bool(false)))
	assert.Equal(t, control.Bool(false), value(t, e, control.FaceRecognition))
	assert.False(t, e.View().ControlEnabled(control.FaceEnroll))

	require.NoError(t, e.ApplyProgrammaticOverride(control.ExposureControl, control.Bool(false)))
	assert.True(t, e.View().GroupVisible(control.GroupExposureValue))
	w.AssertNotCalled(t, "SetOne", mock.Anything, mock.Anything)

	assert.ErrorIs(t, e.ApplyProgrammaticOverride("zoom", control.Bool(true)), control.ErrUnknownControl)
}

func TestRuleChainDepthIsBounded(t *testing.T) {
	reg := control.NewRegistry(
		control.Definition{ID: "a", Kind: control.KindToggle},
		control.Definition{ID: "b", Kind: control.KindToggle},
	)
	rules := []Rule{
		{Trigger: "a", When: BecomesTrue(), Effects: []Effect{Force("b", control.Bool(true))}},
		{Trigger: "b", When: BecomesTrue(), Effects: []Effect{Force("a", control.Bool(true))}},
	}
	e := NewWithRules(reg, nil, nil, rules, nil)
	err := e.ApplyProgrammaticOverride("a", control.Bool(true))
	assert.ErrorContains(t, err, "rule chain exceeded")
}
