package domain

import "math"

// normCdf 标准正态分布累积分布函数
// 基于 math.Erf 实现，绝对误差优于 1e-9
func normCdf(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// normPdf 标准正态分布概率密度函数
func normPdf(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}
