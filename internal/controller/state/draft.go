package state

import "time"

// Lookup соответствие "надпись на кнопке -> значение", снятое при отрисовке клавиатуры.
// Одинаковые надписи с разными значениями помечаются неоднозначными.
type Lookup[T any] struct {
	labels []string
	values map[string][]T
}

// NewLookup создаёт пустое соответствие
func NewLookup[T any]() *Lookup[T] {
	return &Lookup[T]{values: make(map[string][]T)}
}

// Add добавляет значение под надписью
func (l *Lookup[T]) Add(label string, value T) {
	if _, exists := l.values[label]; !exists {
		l.labels = append(l.labels, label)
	}
	l.values[label] = append(l.values[label], value)
}

// Labels надписи в порядке добавления, без повторов
func (l *Lookup[T]) Labels() []string {
	if l == nil {
		return nil
	}
	return l.labels
}

// Ambiguous надписи, под которыми больше одного значения
func (l *Lookup[T]) Ambiguous() []string {
	var out []string
	for _, label := range l.Labels() {
		if len(l.values[label]) > 1 {
			out = append(out, label)
		}
	}
	return out
}

// Resolve ищет значение по надписи. ambiguous=true, если под надписью несколько значений.
func (l *Lookup[T]) Resolve(label string) (value T, found bool, ambiguous bool) {
	if l == nil {
		return value, false, false
	}
	values, exists := l.values[label]
	if !exists || len(values) == 0 {
		return value, false, false
	}
	if len(values) > 1 {
		return value, true, true
	}
	return values[0], true, false
}

// Len количество надписей
func (l *Lookup[T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.labels)
}

// Draft черновик записи. Каждый шаг заполняет свои поля и lookup следующей клавиатуры.
type Draft struct {
	BarberID   int64
	BarberName string

	ServiceTypeID   int64
	ServiceTypeName string

	ServiceID       int64
	ServiceName     string
	ServiceDuration int // минуты

	Date       time.Time // полночь в зоне салона
	FromPicker bool      // дата выбрана из списка на 30 дней
	Time       string    // "HH:MM" местное

	Barbers      *Lookup[int64]
	ServiceTypes *Lookup[int64]
	Services     *Lookup[ServiceOption]
	Dates        *Lookup[time.Time]
	Slots        []string
}

// ServiceOption услуга на клавиатуре
type ServiceOption struct {
	ID       int64
	Name     string
	Duration int
}

// ClearBarber забывает мастера
func (d *Draft) ClearBarber() {
	d.BarberID = 0
	d.BarberName = ""
}

// ClearServiceType забывает тип услуги
func (d *Draft) ClearServiceType() {
	d.ServiceTypeID = 0
	d.ServiceTypeName = ""
}

// ClearService забывает услугу
func (d *Draft) ClearService() {
	d.ServiceID = 0
	d.ServiceName = ""
	d.ServiceDuration = 0
}

// ClearDate забывает дату и предложенное время
func (d *Draft) ClearDate() {
	d.Date = time.Time{}
	d.FromPicker = false
	d.Slots = nil
}

// ClearTime забывает выбранное время
func (d *Draft) ClearTime() {
	d.Time = ""
}

// HasSlot предлагалось ли это время в последней клавиатуре
func (d *Draft) HasSlot(label string) bool {
	for _, slot := range d.Slots {
		if slot == label {
			return true
		}
	}
	return false
}
