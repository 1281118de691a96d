package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/flowsim/internal/domain"
)

var twoPoints = []domain.Point{{X: 0, Y: 0}, {X: 10, Y: 100}}

func TestInterpolate_Linear(t *testing.T) {
	y, err := domain.Interpolate(twoPoints, domain.InterpolationLinear, 5)
	require.NoError(t, err)
	assert.InDelta(t, 50, y, 1e-9)
}

func TestInterpolate_Step(t *testing.T) {
	y, err := domain.Interpolate(twoPoints, domain.InterpolationStep, 5)
	require.NoError(t, err)
	assert.InDelta(t, 0, y, 1e-9)

	y, err = domain.Interpolate(twoPoints, domain.InterpolationStep, 10)
	require.NoError(t, err)
	assert.InDelta(t, 100, y, 1e-9)
}

func TestInterpolate_NearestTieBreak(t *testing.T) {
	// x=5 is equidistant from 0 and 10; the first (smallest-x) point wins.
	y, err := domain.Interpolate(twoPoints, domain.InterpolationNearest, 5)
	require.NoError(t, err)
	assert.InDelta(t, 0, y, 1e-9)
}

func TestInterpolate_LinearClampsOutsideRange(t *testing.T) {
	y, err := domain.Interpolate(twoPoints, domain.InterpolationLinear, -5)
	require.NoError(t, err)
	assert.InDelta(t, 0, y, 1e-9)

	y, err = domain.Interpolate(twoPoints, domain.InterpolationLinear, 15)
	require.NoError(t, err)
	assert.InDelta(t, 100, y, 1e-9)
}

func TestInterpolate_CubicFallsBackToLinearForTwoPoints(t *testing.T) {
	y, err := domain.Interpolate(twoPoints, domain.InterpolationCubic, 5)
	require.NoError(t, err)
	assert.InDelta(t, 50, y, 1e-9)
}

func TestInterpolate_CubicThreePointsPassesThroughKnots(t *testing.T) {
	pts := []domain.Point{{X: 0, Y: 0}, {X: 5, Y: 10}, {X: 10, Y: 0}}
	for _, p := range pts {
		y, err := domain.Interpolate(pts, domain.InterpolationCubic, p.X)
		require.NoError(t, err)
		assert.InDeltaf(t, p.Y, y, 1e-9, "x=%v", p.X)
	}
}

func TestInterpolate_UnsortedInputIsSorted(t *testing.T) {
	unsorted := []domain.Point{{X: 10, Y: 100}, {X: 0, Y: 0}}
	y, err := domain.Interpolate(unsorted, domain.InterpolationLinear, 5)
	require.NoError(t, err)
	assert.InDelta(t, 50, y, 1e-9)
}

func TestInterpolate_EmptyPointsErrors(t *testing.T) {
	_, err := domain.Interpolate(nil, domain.InterpolationLinear, 0)
	assert.Error(t, err)
}

func TestInterpolate_UnknownMethodErrors(t *testing.T) {
	_, err := domain.Interpolate(twoPoints, domain.InterpolationMethod("bogus"), 0)
	assert.Error(t, err)
}
