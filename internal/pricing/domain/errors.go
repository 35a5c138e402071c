package domain

import "errors"

// 错误定义
var (
	// ErrInvalidInput 定价输入非法（负的价格/行权价/期限，或要求为正的波动率非正）
	ErrInvalidInput = errors.New("invalid pricing input")
	// ErrNoConvergence 隐含波动率求解在迭代上限内未收敛
	ErrNoConvergence = errors.New("implied volatility did not converge")
)
