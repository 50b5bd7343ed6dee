package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat"
)

// ModeratedVariances is the output of the empirical-Bayes squeeze: per-gene
// posterior variances shrunk toward an expression-dependent trend, plus the
// pooled prior degrees of freedom gained by borrowing strength across genes.
type ModeratedVariances struct {
	PriorDF  float64   // d0; +Inf when gene variances are fully exchangeable
	PriorVar []float64 // s0^2 per gene, a smooth function of mean log-expression
	PostVar  []float64 // (d0*s0^2 + d*s^2) / (d0 + d)
	TotalDF  float64   // d + d0
}

// trendWindowFraction controls the span of the running-mean trend of
// log-variance against mean log-expression.
const trendWindowFraction = 0.3

// ModerateVariances squeezes the fit's per-gene residual variances toward a
// trend estimated jointly across all genes at similar expression levels. The
// prior is trend-aware by construction: a smooth curve of log-variance over
// mean log-expression, never a single global constant.
//
// When the design is saturated (zero residual df) there is no variance
// information to pool; the moderator returns zero prior df and zero posterior
// variances so contrast evaluation fails closed with p = 1.
func ModerateVariances(fit *LinearModelFit) ModeratedVariances {
	n := len(fit.ResidualVar)
	out := ModeratedVariances{
		PriorVar: make([]float64, n),
		PostVar:  make([]float64, n),
	}
	d := fit.ResidualDF
	if d <= 0 || n == 0 {
		out.TotalDF = 0
		return out
	}

	// Work in log space. Zero sample variances are legitimate (constant
	// genes); floor them so the log is defined without distorting the trend.
	logVar := make([]float64, n)
	for i, s2 := range fit.ResidualVar {
		logVar[i] = math.Log(math.Max(s2, minVarianceFloor))
	}

	trend := windowedTrend(fit.AMean, logVar)

	// Bias-correct the trend into a prior variance estimate:
	// E[log s^2] = log sigma^2 + digamma(d/2) - log(d/2).
	bias := mathext.Digamma(d/2) - math.Log(d/2)
	for i := range trend {
		out.PriorVar[i] = math.Exp(trend[i] - bias)
	}

	// Method-of-moments prior df: the excess spread of log-variance residuals
	// over what a chi-square with d df explains is attributed to the prior.
	resid := make([]float64, n)
	for i := range logVar {
		resid[i] = logVar[i] - trend[i]
	}
	excess := stat.Variance(resid, nil) - trigamma(d/2)
	if excess > 0 {
		out.PriorDF = 2 * trigammaInverse(excess)
	} else {
		out.PriorDF = math.Inf(1)
	}

	if math.IsInf(out.PriorDF, 1) {
		copy(out.PostVar, out.PriorVar)
		out.TotalDF = math.Inf(1)
		return out
	}

	d0 := out.PriorDF
	for i, s2 := range fit.ResidualVar {
		out.PostVar[i] = (d0*out.PriorVar[i] + d*s2) / (d0 + d)
	}
	out.TotalDF = d + d0
	return out
}

// minVarianceFloor keeps log-variance finite for genes with zero sample
// variance without influencing the trend for ordinary genes.
const minVarianceFloor = 1e-12

// windowedTrend fits a running mean of y over x: genes are sorted by x and
// each gene's trend value is the mean of y within a centered rank window.
// This is the smooth variance-vs-expression curve the prior squeezes toward.
func windowedTrend(x, y []float64) []float64 {
	n := len(x)
	trend := make([]float64, n)
	if n == 0 {
		return trend
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return x[order[a]] < x[order[b]] })

	half := int(float64(n) * trendWindowFraction / 2)
	if half < 1 {
		half = 1
	}
	// Prefix sums over y in x-order for O(n) window means.
	prefix := make([]float64, n+1)
	for rank, idx := range order {
		prefix[rank+1] = prefix[rank] + y[idx]
	}
	for rank, idx := range order {
		lo := rank - half
		if lo < 0 {
			lo = 0
		}
		hi := rank + half
		if hi >= n {
			hi = n - 1
		}
		trend[idx] = (prefix[hi+1] - prefix[lo]) / float64(hi-lo+1)
	}
	return trend
}

// trigamma evaluates the second derivative of the log-gamma function using
// the recurrence for small arguments and the asymptotic series beyond.
func trigamma(x float64) float64 {
	if x <= 0 {
		return math.Inf(1)
	}
	var acc float64
	for x < 6 {
		acc += 1 / (x * x)
		x++
	}
	inv := 1 / x
	inv2 := inv * inv
	// Asymptotic expansion with Bernoulli-number coefficients.
	series := inv + inv2/2 + inv*inv2/6 - inv*inv2*inv2/30 + inv*inv2*inv2*inv2/42
	return acc + series
}

// trigammaInverse solves trigamma(x) = y for x > 0. Trigamma is strictly
// decreasing, so a bracketed bisection converges unconditionally.
func trigammaInverse(y float64) float64 {
	if y <= 0 {
		return math.Inf(1)
	}
	lo, hi := 1e-8, 1e8
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		if trigamma(mid) > y {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < 1e-10*(1+lo) {
			break
		}
	}
	return (lo + hi) / 2
}
