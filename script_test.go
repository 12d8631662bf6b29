package applescene

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qapples/AppleSceneEditor-sub000/jsondoc"
)

func TestRunScript(t *testing.T) {
	ed, fsys, _ := newTestEditor(t, baseEntity, pathEntity)

	err := RunScript(ed, strings.NewReader(`
# build a turret on the base
add-entity Turret TransformInfo
add-component Turret CollisionBoxInfo
parent Turret Base
transform Turret pos=0,1,0 scale=2,2,2 box
add-element Patrol PathInfo points
remove-element Patrol PathInfo points 0
select Turret
save
`))
	require.NoError(t, err)

	turret := mustEntity(t, ed, "Turret")
	assert.Equal(t, []string{"TransformInfo", "CollisionBoxInfo", "ParentInfo"}, componentTypes(turret))
	tr, _, _ := turret.FindComponent(TransformType)
	assert.Equal(t, "0 1 0", property(t, tr, fieldPosition))
	assert.Equal(t, "0 0 0", property(t, tr, fieldRotation), "unset parts keep their value")
	assert.Same(t, turret, ed.Selected())

	patrol := mustEntity(t, ed, "Patrol")
	path, _, _ := patrol.FindComponent("PathInfo")
	points, _ := path.FindArray("points", jsondoc.Ordinal)
	require.Equal(t, 3, points.Len())
	first, _ := points.At(0)
	assert.Equal(t, "1 0 0", property(t, first, "at"))

	_, err = fsys.ReadFile(entityFile("Turret"))
	assert.NoError(t, err, "save wrote the new entity")
	assert.Equal(t, 6, ed.Stream.Len())

	require.NoError(t, RunScript(ed, strings.NewReader("undo\nundo\nredo\n")))
	assert.Equal(t, 4, ed.Stream.Cursor())
}

func TestRunScript_StopsAtFirstError(t *testing.T) {
	for script, want := range map[string]string{
		"add-entity A\nfrobnicate A\nadd-entity B":    "line 2: unknown command",
		"add-component":                               "line 1: add-component: expected 2",
		"\n\nremove-element Patrol PathInfo points x": "line 3: remove-element: index",
		"transform Patrol spin=1,2,3":                 "unknown option",
		"transform Patrol pos=1,2":                    "transform pos",
		"remove-entity Ghost":                         "not found",
	} {
		ed, _, _ := newTestEditor(t, pathEntity)
		err := RunScript(ed, strings.NewReader(script))
		require.Error(t, err, script)
		assert.ErrorContains(t, err, want, script)
		_, ok := ed.Scene.Find("B")
		assert.False(t, ok, "lines after a failure do not run")
	}
}
