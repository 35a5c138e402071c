package domain

import "sync"

// Ledger 会话级持仓账本
// 以 Symbol 为唯一键，重复入账覆盖旧持仓；读写互斥，
// 迭代快照在持锁期间拷贝，聚合方看到的始终是一致状态
type Ledger struct {
	mu        sync.RWMutex
	positions map[string]*Position
	order     []string
}

// NewLedger 创建空账本
func NewLedger() *Ledger {
	return &Ledger{positions: make(map[string]*Position)}
}

// Upsert 入账；同名持仓整体替换，保留首次入账的顺序位
// 返回是否发生了覆盖
func (l *Ledger) Upsert(p *Position) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, replaced := l.positions[p.Symbol]
	if !replaced {
		l.order = append(l.order, p.Symbol)
	}
	l.positions[p.Symbol] = p.Clone()
	return replaced
}

// Get 按 Symbol 查询持仓快照
func (l *Ledger) Get(symbol string) (*Position, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p, ok := l.positions[symbol]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// List 返回按入账顺序排列的持仓快照
func (l *Ledger) List() []*Position {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Position, 0, len(l.order))
	for _, symbol := range l.order {
		out = append(out, l.positions[symbol].Clone())
	}
	return out
}

// Len 返回持仓数
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.positions)
}

// Clear 清空账本
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.positions = make(map[string]*Position)
	l.order = nil
}
