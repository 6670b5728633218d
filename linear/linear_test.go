package linear_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gonumerics/linear"
	"github.com/njchilds90/gonumerics/numutil"
	"github.com/njchilds90/gonumerics/solver"
)

func classicSystem() ([][]float64, []float64) {
	return [][]float64{
		{2, 1, -1},
		{-3, -1, 2},
		{-2, 1, 2},
	}, []float64{8, -11, -3}
}

func dominantSystem() ([][]float64, []float64) {
	// Solution is [1, 2, -1].
	return [][]float64{
		{10, -1, 2},
		{-1, 11, -1},
		{2, -1, 10},
	}, []float64{6, 22, -10}
}

var tol = solver.Tolerance{Tolerance: 1e-10, MaxIterations: 200}

// ==============================================================================
// Direct methods
// ==============================================================================

func TestDirect_ClassicSystem(t *testing.T) {
	solvers := map[string]func([][]float64, []float64, linear.Pivoting) (*linear.DirectResult, error){
		"gaussian":     linear.GaussianElimination,
		"gauss-jordan": linear.GaussJordan,
	}
	for name, solve := range solvers {
		for _, p := range []linear.Pivoting{linear.PartialPivoting, linear.TotalPivoting} {
			t.Run(name+"/"+p.String(), func(t *testing.T) {
				a, b := classicSystem()
				res, err := solve(a, b, p)
				require.NoError(t, err)
				assert.InDeltaSlice(t, []float64{2, 3, -1}, res.Solution, 1e-9)
				assert.Less(t, float64(res.Residual), 1e-9)
				assert.InDelta(t, -1.0, float64(res.Determinant), 1e-9)
				assert.Equal(t, p.String(), res.Pivoting)
				require.NotEmpty(t, res.Steps)
				assert.Equal(t, "initial augmented matrix", res.Steps[0].Description)
				assert.Equal(t, solver.Matrix{{2, 1, -1, 8}, {-3, -1, 2, -11}, {-2, 1, 2, -3}}, res.Steps[0].Matrix)
			})
		}
	}
}

func TestGaussJordan_LeavesIdentity(t *testing.T) {
	a, b := classicSystem()
	res, err := linear.GaussJordan(a, b, linear.PartialPivoting)
	require.NoError(t, err)
	final := res.Steps[len(res.Steps)-1].Matrix
	for i := range final {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, final[i][j], 1e-12)
		}
	}
}

func TestDirect_InputsNotMutated(t *testing.T) {
	a, b := classicSystem()
	origA, origB := numutil.CloneMatrix(a), numutil.CloneVector(b)
	_, err := linear.GaussianElimination(a, b, linear.TotalPivoting)
	require.NoError(t, err)
	_, err = linear.GaussJordan(a, b, linear.PartialPivoting)
	require.NoError(t, err)
	assert.Equal(t, origA, a)
	assert.Equal(t, origB, b)
}

func TestDirect_TotalPivotingSwapsColumns(t *testing.T) {
	a := [][]float64{{1, 10}, {2, 1}}
	b := []float64{21, 4}
	res, err := linear.GaussianElimination(a, b, linear.TotalPivoting)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2}, res.Solution, 1e-12)
	assert.Equal(t, []int{1, 0}, res.Steps[len(res.Steps)-1].Columns)
}

func TestDirect_Singular(t *testing.T) {
	a := [][]float64{{1, 2}, {2, 4}}
	b := []float64{3, 6}
	_, err := linear.GaussianElimination(a, b, linear.PartialPivoting)
	require.ErrorIs(t, err, solver.ErrSingularMatrix)
	_, err = linear.GaussJordan(a, b, linear.TotalPivoting)
	require.ErrorIs(t, err, solver.ErrSingularMatrix)
}

func TestDirect_DimensionMismatch(t *testing.T) {
	cases := []struct {
		name string
		a    [][]float64
		b    []float64
	}{
		{"empty", nil, nil},
		{"not square", [][]float64{{1, 2, 3}, {4, 5, 6}}, []float64{1, 2}},
		{"vector length", [][]float64{{1, 0}, {0, 1}}, []float64{1, 2, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := linear.GaussianElimination(tc.a, tc.b, linear.PartialPivoting)
			require.ErrorIs(t, err, solver.ErrDimensionMismatch)
			_, err = linear.Jacobi(tc.a, tc.b, nil, tol)
			require.ErrorIs(t, err, solver.ErrDimensionMismatch)
		})
	}
}

func TestParsePivoting(t *testing.T) {
	p, err := linear.ParsePivoting("total")
	require.NoError(t, err)
	assert.Equal(t, linear.TotalPivoting, p)
	p, err = linear.ParsePivoting("")
	require.NoError(t, err)
	assert.Equal(t, linear.PartialPivoting, p)
	_, err = linear.ParsePivoting("rook")
	require.ErrorIs(t, err, solver.ErrInvalidArgument)
}

// ==============================================================================
// Iterative methods
// ==============================================================================

func TestJacobi_Converges(t *testing.T) {
	a, b := dominantSystem()
	res, err := linear.Jacobi(a, b, nil, tol)
	require.NoError(t, err)
	require.True(t, res.Converged)
	assert.InDeltaSlice(t, []float64{1, 2, -1}, res.Solution, 1e-9)
	assert.Less(t, float64(res.FinalError), tol.Tolerance)
	assert.LessOrEqual(t, len(res.Iterations), tol.MaxIterations)
	last := res.Iterations[len(res.Iterations)-1]
	assert.Equal(t, res.Solution, last.Vector)
	assert.Less(t, float64(last.Residual), 1e-8)
}

func TestJacobi_RejectsNonDominant(t *testing.T) {
	a, b := classicSystem()
	res, err := linear.Jacobi(a, b, nil, tol)
	require.ErrorIs(t, err, solver.ErrConvergenceNotGuaranteed)
	assert.Nil(t, res)
}

func TestGaussSeidel_FasterThanJacobi(t *testing.T) {
	a, b := dominantSystem()
	j, err := linear.Jacobi(a, b, nil, tol)
	require.NoError(t, err)
	gs, err := linear.GaussSeidel(a, b, nil, tol)
	require.NoError(t, err)
	require.True(t, gs.Converged)
	assert.True(t, gs.DiagonallyDominant)
	assert.InDeltaSlice(t, []float64{1, 2, -1}, gs.Solution, 1e-9)
	assert.Less(t, len(gs.Iterations), len(j.Iterations))
}

func TestGaussSeidel_NonDominantStillRuns(t *testing.T) {
	// Symmetric positive definite but not diagonally dominant.
	a := [][]float64{{1, 2}, {2, 5}}
	b := []float64{3, 7}
	res, err := linear.GaussSeidel(a, b, []float64{0, 0}, tol)
	require.NoError(t, err)
	assert.False(t, res.DiagonallyDominant)
	assert.True(t, res.Converged)
	assert.InDeltaSlice(t, []float64{1, 1}, res.Solution, 1e-8)
}

func TestGaussSeidel_ZeroDiagonal(t *testing.T) {
	_, err := linear.GaussSeidel([][]float64{{0, 1}, {1, 0}}, []float64{1, 1}, nil, tol)
	require.ErrorIs(t, err, solver.ErrSingularMatrix)
}

func TestIterative_InitialGuessLength(t *testing.T) {
	a, b := dominantSystem()
	_, err := linear.GaussSeidel(a, b, []float64{0}, tol)
	require.ErrorIs(t, err, solver.ErrDimensionMismatch)
}

func TestGaussSeidel_DivergenceIsNotConvergence(t *testing.T) {
	a := [][]float64{{1, 3}, {2, 1}}
	b := []float64{1, 1}
	res, err := linear.GaussSeidel(a, b, nil, solver.Tolerance{Tolerance: 1e-6, MaxIterations: 1000})
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.True(t, res.Diverged)
	assert.True(t, math.IsInf(float64(res.FinalError), 1))
	assert.Less(t, len(res.Iterations), 1000)

	body, err := json.Marshal(res)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, false, decoded["converged"])
	assert.Equal(t, "+Inf", decoded["final_error"])
}

func TestGaussSeidel_ExhaustedWithoutDivergence(t *testing.T) {
	a := [][]float64{{1, 3}, {2, 1}}
	b := []float64{1, 1}
	res, err := linear.GaussSeidel(a, b, nil, solver.Tolerance{Tolerance: 1e-6, MaxIterations: 5})
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.False(t, res.Diverged)
	assert.Len(t, res.Iterations, 5)
}
