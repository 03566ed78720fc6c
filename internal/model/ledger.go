package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Ledger хранит записи пользователей и вторичный индекс реферальных кодов.
// Реестр обходится по возрастанию идентификатора пользователя.
type Ledger struct {
	users map[int64]*User
	codes map[string][]int64
}

// LeaderboardEntry описывает строку таблицы лидеров.
type LeaderboardEntry struct {
	ID      int64
	Balance int64
}

// NewLedger создаёт пустой реестр.
func NewLedger() *Ledger {
	return &Ledger{
		users: make(map[int64]*User),
		codes: make(map[string][]int64),
	}
}

// Len возвращает количество пользователей в реестре.
func (l *Ledger) Len() int {
	return len(l.users)
}

// Get возвращает запись пользователя по идентификатору.
func (l *Ledger) Get(id int64) (*User, bool) {
	u, ok := l.users[id]
	return u, ok
}

// Put добавляет или заменяет запись пользователя и обновляет индекс кодов.
func (l *Ledger) Put(id int64, u *User) {
	if old, ok := l.users[id]; ok && old.RefCode != u.RefCode {
		l.unindex(old.RefCode, id)
	}
	l.users[id] = u
	l.index(u.RefCode, id)
}

func (l *Ledger) index(code string, id int64) {
	if code == "" {
		return
	}
	ids := l.codes[code]
	pos := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if pos < len(ids) && ids[pos] == id {
		return
	}
	ids = append(ids, 0)
	copy(ids[pos+1:], ids[pos:])
	ids[pos] = id
	l.codes[code] = ids
}

func (l *Ledger) unindex(code string, id int64) {
	ids := l.codes[code]
	for i, v := range ids {
		if v == id {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(l.codes, code)
		return
	}
	l.codes[code] = ids
}

// HasCode сообщает, занят ли реферальный код.
func (l *Ledger) HasCode(code string) bool {
	return len(l.codes[code]) > 0
}

// LookupCode возвращает первого в порядке обхода владельца кода,
// отличного от exclude.
func (l *Ledger) LookupCode(code string, exclude int64) (int64, bool) {
	for _, id := range l.codes[code] {
		if id != exclude {
			return id, true
		}
	}
	return 0, false
}

// IDs возвращает идентификаторы пользователей в порядке обхода.
func (l *Ledger) IDs() []int64 {
	ids := make([]int64, 0, len(l.users))
	for id := range l.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Top возвращает не более n пользователей с наибольшим балансом.
// При равенстве баланса сохраняется порядок обхода.
func (l *Ledger) Top(n int) []LeaderboardEntry {
	ids := l.IDs()
	entries := make([]LeaderboardEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, LeaderboardEntry{ID: id, Balance: l.users[id].Balance})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Balance > entries[j].Balance
	})

	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// MarshalJSON сериализует реестр в объект вида {"<id>": {...}}.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	raw := make(map[string]*User, len(l.users))
	for id, u := range l.users {
		raw[strconv.FormatInt(id, 10)] = u
	}
	return json.Marshal(raw)
}

// UnmarshalJSON восстанавливает реестр и индекс кодов из JSON-объекта.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var raw map[string]*User
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fresh := NewLedger()
	for key, u := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", key, err)
		}
		if u == nil {
			return fmt.Errorf("empty record for user %d", id)
		}
		fresh.Put(id, u)
	}

	*l = *fresh
	return nil
}
