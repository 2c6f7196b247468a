package selection

import (
	"time"

	"github.com/betterhotel/booking-calendar/internal/models"
)

// Journal необязательная обёртка над машиной с историей состояний.
// Каждая мутация через обёртку записывает срез состояния до неё,
// Undo возвращает машину к последнему записанному срезу. Глубина
// истории ограничена, старые записи вытесняются.
type Journal struct {
	m     *Machine
	limit int
	stack []Snapshot
}

// NewJournal оборачивает машину журналом глубиной limit.
func NewJournal(m *Machine, limit int) *Journal {
	if limit < 1 {
		limit = 1
	}
	return &Journal{m: m, limit: limit}
}

// Machine возвращает обёрнутую машину для операций чтения.
func (j *Journal) Machine() *Machine { return j.m }

// Click записывает состояние и передаёт клик машине.
func (j *Journal) Click(date time.Time) models.ValidationResult {
	j.push()
	return j.m.Click(date)
}

// Clear записывает состояние и сбрасывает выбор.
func (j *Journal) Clear() {
	j.push()
	j.m.Clear()
}

// Navigate записывает состояние и сдвигает месяц.
func (j *Journal) Navigate(delta int) time.Time {
	j.push()
	return j.m.Navigate(delta)
}

// Undo откатывает машину к последнему записанному срезу.
// Возвращает false, если история пуста.
func (j *Journal) Undo() bool {
	if len(j.stack) == 0 {
		return false
	}
	last := j.stack[len(j.stack)-1]
	j.stack = j.stack[:len(j.stack)-1]
	j.m.restore(last)
	return true
}

// Len текущая глубина истории.
func (j *Journal) Len() int { return len(j.stack) }

func (j *Journal) push() {
	j.stack = append(j.stack, j.m.Snapshot())
	if len(j.stack) > j.limit {
		j.stack = j.stack[1:]
	}
}
