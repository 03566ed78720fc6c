package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestLedgerTop(t *testing.T) {
	l := NewLedger()
	balances := []int64{50, 10, 100, 0, 30, 100, 5}
	for i, b := range balances {
		l.Put(int64(i+1), &User{Balance: b, RefCode: "code000" + string(rune('a'+i))})
	}

	top := l.Top(5)

	want := []LeaderboardEntry{
		{ID: 3, Balance: 100},
		{ID: 6, Balance: 100},
		{ID: 1, Balance: 50},
		{ID: 5, Balance: 30},
		{ID: 2, Balance: 10},
	}
	assert.Equal(t, want, top)
}

func TestLedgerTop_FewerThanLimit(t *testing.T) {
	l := NewLedger()
	l.Put(10, &User{Balance: 1})
	l.Put(2, &User{Balance: 1})

	top := l.Top(5)

	require.Len(t, top, 2)
	assert.Equal(t, int64(2), top[0].ID)
	assert.Equal(t, int64(10), top[1].ID)
}

func TestLedgerLookupCode(t *testing.T) {
	l := NewLedger()
	l.Put(7, &User{RefCode: "abcdef12"})
	l.Put(3, &User{RefCode: "abcdef12"})
	l.Put(5, &User{RefCode: "99999999"})

	id, ok := l.LookupCode("abcdef12", 0)
	require.True(t, ok)
	assert.Equal(t, int64(3), id, "collision resolves to the first id in iteration order")

	id, ok = l.LookupCode("abcdef12", 3)
	require.True(t, ok)
	assert.Equal(t, int64(7), id)

	_, ok = l.LookupCode("99999999", 5)
	assert.False(t, ok, "owner must not match its own code")

	_, ok = l.LookupCode("missing0", 0)
	assert.False(t, ok)
}

func TestLedgerPut_ReindexesChangedCode(t *testing.T) {
	l := NewLedger()
	l.Put(1, &User{RefCode: "old00000"})
	l.Put(1, &User{RefCode: "new00000"})

	assert.False(t, l.HasCode("old00000"))
	assert.True(t, l.HasCode("new00000"))
	assert.Equal(t, 1, l.Len())
}

func TestLedgerIDsSorted(t *testing.T) {
	l := NewLedger()
	for _, id := range []int64{42, -5, 7, 1000} {
		l.Put(id, &User{})
	}

	assert.Equal(t, []int64{-5, 7, 42, 1000}, l.IDs())
}

func TestLedgerJSONRoundTrip(t *testing.T) {
	l := NewLedger()
	l.Put(100, &User{Balance: 60, LastEarn: 1700000000, Referrals: 1, RefCode: "a1b2c3d4"})
	l.Put(200, &User{Balance: 0, LastEarn: 0, RefCode: "e5f6a7b8", ReferredBy: int64Ptr(100)})

	data, err := json.Marshal(l)
	require.NoError(t, err)

	restored := NewLedger()
	require.NoError(t, json.Unmarshal(data, restored))

	assert.Equal(t, l.IDs(), restored.IDs())
	for _, id := range l.IDs() {
		want, _ := l.Get(id)
		got, ok := restored.Get(id)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	owner, ok := restored.LookupCode("a1b2c3d4", 0)
	require.True(t, ok)
	assert.Equal(t, int64(100), owner)
}

func TestLedgerJSON_NullReferredBy(t *testing.T) {
	l := NewLedger()
	l.Put(1, &User{RefCode: "deadbeef"})

	data, err := json.Marshal(l)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"1":{"balance":0,"last_earn":0,"referrals":0,"ref_code":"deadbeef","referred_by":null}}`,
		string(data))
}

func TestLedgerUnmarshal_InvalidKey(t *testing.T) {
	l := NewLedger()
	err := json.Unmarshal([]byte(`{"abc":{"balance":1}}`), l)
	assert.Error(t, err)
}
