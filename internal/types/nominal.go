package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"lumen/internal/source"
)

// StructMember describes a single member inside a struct type.
type StructMember struct {
	Name source.StringID
	Type TypeID
}

// StructInfo stores metadata for a struct type.
type StructInfo struct {
	Name    source.StringID
	Members []StructMember
}

// RegisterStruct allocates a nominal struct type. Registering a name twice
// returns the existing TypeID and false.
func (in *Interner) RegisterStruct(name string, members []StructMember) (TypeID, bool) {
	if id, ok := in.byName[name]; ok {
		return id, false
	}
	slot := in.appendStructInfo(StructInfo{Name: in.strings.Intern(name), Members: members})
	id := in.internRaw(Type{Kind: KindStruct, Payload: slot})
	in.byName[name] = id
	return id, true
}

// Member builds a StructMember, interning its name.
func (in *Interner) Member(name string, typ TypeID) StructMember {
	return StructMember{Name: in.strings.Intern(name), Type: typ}
}

// StructByName finds a registered struct.
func (in *Interner) StructByName(name string) (TypeID, bool) {
	id, ok := in.byName[name]
	return id, ok
}

// StructInfo returns metadata for the provided struct TypeID.
func (in *Interner) StructInfo(typeID TypeID) (*StructInfo, bool) {
	info := in.structInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

// Members returns a copy of struct members for the TypeID.
func (in *Interner) Members(typeID TypeID) []StructMember {
	info := in.structInfo(typeID)
	if info == nil || len(info.Members) == 0 {
		return nil
	}
	return slices.Clone(info.Members)
}

// UniformMembers reports whether typeID is a struct whose members all share
// one type.
func (in *Interner) UniformMembers(typeID TypeID) bool {
	info := in.structInfo(typeID)
	if info == nil || len(info.Members) == 0 {
		return false
	}
	for _, m := range info.Members[1:] {
		if m.Type != info.Members[0].Type {
			return false
		}
	}
	return true
}

// MemberType returns the type of member i, or NoTypeID.
func (in *Interner) MemberType(typeID TypeID, i int) TypeID {
	info := in.structInfo(typeID)
	if info == nil || i < 0 || i >= len(info.Members) {
		return NoTypeID
	}
	return info.Members[i].Type
}

// MemberIndex looks a member up by name.
func (in *Interner) MemberIndex(typeID TypeID, name string) (int, bool) {
	info := in.structInfo(typeID)
	if info == nil {
		return -1, false
	}
	for i, m := range info.Members {
		if in.strings.MustLookup(m.Name) == name {
			return i, true
		}
	}
	return -1, false
}

func (in *Interner) structInfo(typeID TypeID) *StructInfo {
	if typeID == NoTypeID {
		return nil
	}
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindStruct {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.structs) {
		return nil
	}
	return &in.structs[tt.Payload]
}

func (in *Interner) appendStructInfo(info StructInfo) uint32 {
	in.structs = append(in.structs, StructInfo{
		Name:    info.Name,
		Members: slices.Clone(info.Members),
	})
	slot, err := safecast.Conv[uint32](len(in.structs) - 1)
	if err != nil {
		panic(fmt.Errorf("struct info overflow: %w", err))
	}
	return slot
}
