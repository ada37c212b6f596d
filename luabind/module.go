package luabind

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/bough"
	lua "github.com/yuin/gopher-lua"
)

const handleTypeName = "bough.handle"

// Register installs the global "transform" table and the handle metatable
// in L.
func Register(L *lua.LState, m *bough.Manager) {
	mt := L.NewTypeMetatable(handleTypeName)
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(rawHandle(L, 1).String()))
		return 1
	}))
	L.SetField(mt, "__eq", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(rawHandle(L, 1) == rawHandle(L, 2)))
		return 1
	}))

	b := &binding{m: m}
	tbl := L.NewTable()
	L.SetFuncs(tbl, map[string]lua.LGFunction{
		"alloc":              b.alloc,
		"free":               b.free,
		"valid":              b.valid,
		"set_parent":         b.setParent,
		"parent":             b.parent,
		"children":           b.children,
		"set_name":           b.setName,
		"name":               b.name,
		"find":               b.find,
		"position":           b.position,
		"set_position":       b.setPosition,
		"scale":              b.scale,
		"set_scale":          b.setScale,
		"angle":              b.angle,
		"set_angle":          b.setAngle,
		"world_position":     b.worldPosition,
		"set_world_position": b.setWorldPosition,
		"world_scale":        b.worldScale,
		"set_world_scale":    b.setWorldScale,
		"world_angle":        b.worldAngle,
		"set_world_angle":    b.setWorldAngle,
		"update":             b.update,
	})
	L.SetGlobal("transform", tbl)
}

// ToHandle extracts a handle from a Lua value produced by the transform
// module.
func ToHandle(lv lua.LValue) (bough.Handle, bool) {
	ud, ok := lv.(*lua.LUserData)
	if !ok {
		return 0, false
	}
	h, ok := ud.Value.(bough.Handle)
	return h, ok
}

func newHandle(L *lua.LState, h bough.Handle) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = h
	L.SetMetatable(ud, L.GetTypeMetatable(handleTypeName))
	return ud
}

// rawHandle reads argument n as a handle without checking liveness.
func rawHandle(L *lua.LState, n int) bough.Handle {
	h, ok := ToHandle(L.Get(n))
	if !ok {
		L.ArgError(n, "transform handle expected")
	}
	return h
}

type binding struct {
	m *bough.Manager
}

// check reads argument n as a live handle.
func (b *binding) check(L *lua.LState, n int) bough.Handle {
	h := rawHandle(L, n)
	if !b.m.Valid(h) {
		L.ArgError(n, "stale transform handle "+h.String())
	}
	return h
}

func (b *binding) pushOptional(L *lua.LState, h bough.Handle, ok bool) int {
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(newHandle(L, h))
	return 1
}

func pushVec(L *lua.LState, v mgl64.Vec2) int {
	L.Push(lua.LNumber(v[0]))
	L.Push(lua.LNumber(v[1]))
	return 2
}

func checkVec(L *lua.LState, n int) mgl64.Vec2 {
	return mgl64.Vec2{float64(L.CheckNumber(n)), float64(L.CheckNumber(n + 1))}
}

func (b *binding) alloc(L *lua.LState) int {
	L.Push(newHandle(L, b.m.Alloc()))
	return 1
}

func (b *binding) free(L *lua.LState) int {
	b.m.Free(b.check(L, 1))
	return 0
}

func (b *binding) valid(L *lua.LState) int {
	h, ok := ToHandle(L.Get(1))
	L.Push(lua.LBool(ok && b.m.Valid(h)))
	return 1
}

// set_parent(h, parent) attaches h; set_parent(h, nil) detaches it.
func (b *binding) setParent(L *lua.LState) int {
	h := b.check(L, 1)
	if L.Get(2) == lua.LNil {
		b.m.Detach(h)
		return 0
	}
	p := b.check(L, 2)
	if b.m.IsAncestorOf(h, p) {
		L.RaiseError("set_parent: %v is an ancestor of %v", h, p)
		return 0
	}
	b.m.SetParent(h, p)
	return 0
}

func (b *binding) parent(L *lua.LState) int {
	p, ok := b.m.Parent(b.check(L, 1))
	return b.pushOptional(L, p, ok)
}

func (b *binding) children(L *lua.LState) int {
	kids := b.m.Children(b.check(L, 1))
	tbl := L.CreateTable(len(kids), 0)
	for _, k := range kids {
		tbl.Append(newHandle(L, k))
	}
	L.Push(tbl)
	return 1
}

func (b *binding) setName(L *lua.LState) int {
	b.m.SetName(b.check(L, 1), L.OptString(2, ""))
	return 0
}

func (b *binding) name(L *lua.LState) int {
	L.Push(lua.LString(b.m.Name(b.check(L, 1))))
	return 1
}

// find(root, "a/b/c") returns the handle or nil.
func (b *binding) find(L *lua.LState) int {
	h, ok := b.m.FindPath(b.check(L, 1), L.CheckString(2))
	return b.pushOptional(L, h, ok)
}

func (b *binding) position(L *lua.LState) int {
	return pushVec(L, b.m.Position(b.check(L, 1)))
}

func (b *binding) setPosition(L *lua.LState) int {
	b.m.SetPosition(b.check(L, 1), checkVec(L, 2))
	return 0
}

func (b *binding) scale(L *lua.LState) int {
	return pushVec(L, b.m.Scale(b.check(L, 1)))
}

func (b *binding) setScale(L *lua.LState) int {
	b.m.SetScale(b.check(L, 1), checkVec(L, 2))
	return 0
}

func (b *binding) angle(L *lua.LState) int {
	L.Push(lua.LNumber(b.m.Angle(b.check(L, 1))))
	return 1
}

func (b *binding) setAngle(L *lua.LState) int {
	b.m.SetAngle(b.check(L, 1), float64(L.CheckNumber(2)))
	return 0
}

func (b *binding) worldPosition(L *lua.LState) int {
	return pushVec(L, b.m.WorldPosition(b.check(L, 1)))
}

func (b *binding) setWorldPosition(L *lua.LState) int {
	b.m.SetWorldPosition(b.check(L, 1), checkVec(L, 2))
	return 0
}

func (b *binding) worldScale(L *lua.LState) int {
	return pushVec(L, b.m.WorldScale(b.check(L, 1)))
}

func (b *binding) setWorldScale(L *lua.LState) int {
	b.m.SetWorldScale(b.check(L, 1), checkVec(L, 2))
	return 0
}

func (b *binding) worldAngle(L *lua.LState) int {
	L.Push(lua.LNumber(b.m.WorldAngle(b.check(L, 1))))
	return 1
}

func (b *binding) setWorldAngle(L *lua.LState) int {
	b.m.SetWorldAngle(b.check(L, 1), float64(L.CheckNumber(2)))
	return 0
}

func (b *binding) update(L *lua.LState) int {
	L.Push(lua.LNumber(b.m.UpdateWorldMatrices().Recomputed))
	return 1
}
