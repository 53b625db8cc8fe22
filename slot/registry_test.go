package slot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type participant struct {
	name string
}

func TestRegistry(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, r *Registry){
		"register and query in insertion order":      testInsertionOrder,
		"unregister is a logical delete":             testUnregister,
		"re-register keeps first position":           testReRegisterKeepsOrder,
		"query by id":                                testQueryById,
		"combo submit exclusivity scenario":          testComboSubmitScenario,
		"query as filters by type":                   testQueryAs,
		"query one reduces to the first participant": testQueryOne,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t, NewRegistry())
		})
	}
}

func testInsertionOrder(t *testing.T, r *Registry) {
	r.Register(FEATURE, "a", participant{"a"})
	r.Register(FEATURE, "b", participant{"b"})
	r.Register(FEATURE, "c", participant{"c"})

	require.Equal(t, []any{participant{"a"}, participant{"b"}, participant{"c"}}, r.Query(FEATURE))
	require.Empty(t, r.Query(SUBMIT))
}

func testUnregister(t *testing.T, r *Registry) {
	r.Register(FEATURE, "a", participant{"a"})
	r.Unregister(FEATURE, "a")

	require.Empty(t, r.Query(FEATURE))
	require.Empty(t, r.Query(FEATURE, "a"))
	require.Empty(t, r.IDs(FEATURE))

	r.Unregister(FEATURE, "missing")
	r.Unregister(COMBO_SUBMIT, "missing")
}

func testReRegisterKeepsOrder(t *testing.T, r *Registry) {
	r.Register(FEATURE, "a", participant{"a"})
	r.Register(FEATURE, "b", participant{"b"})
	r.Unregister(FEATURE, "a")
	r.Register(FEATURE, "a", participant{"a2"})

	require.Equal(t, []any{participant{"a2"}, participant{"b"}}, r.Query(FEATURE))
}

func testQueryById(t *testing.T, r *Registry) {
	r.Register(SUBMIT, "batch", participant{"batch"})
	r.Register(SUBMIT, "other", participant{"other"})

	require.Equal(t, []any{participant{"batch"}}, r.Query(SUBMIT, "batch"))
	require.Empty(t, r.Query(SUBMIT, "nope"))
}

func testComboSubmitScenario(t *testing.T, r *Registry) {
	execute := NewRegistration(r, COMBO_SUBMIT, "execute", participant{"execute"})
	sign := NewRegistration(r, COMBO_SUBMIT, "sign", participant{"sign"})
	execute.Sync(true)
	sign.Sync(true)

	require.Equal(t, []string{"execute", "sign"}, r.IDs(COMBO_SUBMIT))
	require.Equal(t, []any{participant{"execute"}, participant{"sign"}}, r.Query(COMBO_SUBMIT))

	r.Unregister(COMBO_SUBMIT, "execute")
	require.Equal(t, []any{participant{"sign"}}, r.Query(COMBO_SUBMIT))
}

func testQueryAs(t *testing.T, r *Registry) {
	r.Register(FEATURE, "a", participant{"a"})
	r.Register(FEATURE, "b", "not a participant")

	res := QueryAs[participant](r, FEATURE)
	require.Equal(t, []participant{{"a"}}, res)
}

func testQueryOne(t *testing.T, r *Registry) {
	_, ok := r.QueryOne(COMBO_SUBMIT)
	require.False(t, ok)

	r.Register(COMBO_SUBMIT, "sign", participant{"sign"})
	r.Register(COMBO_SUBMIT, "execute", participant{"execute"})
	c, ok := r.QueryOne(COMBO_SUBMIT)
	require.True(t, ok)
	require.Equal(t, participant{"sign"}, c)
}

func TestRegistrationSync(t *testing.T) {
	r := NewRegistry()
	reg := NewRegistration(r, COMBO_SUBMIT, "sign", participant{"sign"})

	require.False(t, reg.Sync(false))
	require.Empty(t, r.Query(COMBO_SUBMIT))

	require.True(t, reg.Sync(true))
	require.Len(t, r.Query(COMBO_SUBMIT), 1)

	reg.Sync(true)
	require.Len(t, r.Query(COMBO_SUBMIT), 1)

	reg.Sync(false)
	require.Empty(t, r.Query(COMBO_SUBMIT))

	reg.Sync(true)
	require.Equal(t, []any{participant{"sign"}}, r.Query(COMBO_SUBMIT))

	reg.Close()
	require.Empty(t, r.Query(COMBO_SUBMIT))
}
