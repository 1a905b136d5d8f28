package observable

import "sync"

// Flag - признак "идёт загрузка" со счётчиком держателей.
// Пока хотя бы один Hold не отпущен, значение true.
type Flag struct {
	mu    sync.Mutex
	holds int
	cell  *Cell[bool]
}

func NewFlag() *Flag {
	return &Flag{cell: NewCell(false)}
}

// Hold - поднимает флаг; release безопасно вызывать повторно
func (f *Flag) Hold() (release func()) {
	f.mu.Lock()
	f.holds++
	if f.holds == 1 {
		f.cell.Set(true)
	}
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.holds--
			if f.holds == 0 {
				f.cell.Set(false)
			}
			f.mu.Unlock()
		})
	}
}

func (f *Flag) Get() bool { return f.cell.Get() }

func (f *Flag) Subscribe(fn func(bool)) func() { return f.cell.Subscribe(fn) }
