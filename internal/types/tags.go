package types

// TagsInfo links a tags container back to the union it was generated for.
type TagsInfo struct {
	Owner TypeID
}

// UnionTagsClass returns the tags container of union, creating it on first
// request. The result is stable for the lifetime of the interner, so two
// queries for the same union always compare equal. Returns NoTypeID when
// union is not a union type.
func (in *Interner) UnionTagsClass(union TypeID) TypeID {
	in.mu.RLock()
	info := in.unionInfoLocked(union)
	if info == nil {
		in.mu.RUnlock()
		return NoTypeID
	}
	if info.Tags != NoTypeID {
		tags := info.Tags
		in.mu.RUnlock()
		return tags
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	// перепроверка: другой писатель мог успеть создать контейнер
	info = in.unionInfoLocked(union)
	if info.Tags != NoTypeID {
		return info.Tags
	}
	slot := nextSlot(len(in.tags), "tags info")
	in.tags = append(in.tags, TagsInfo{Owner: union})
	info.Tags = in.internLocked(Type{Kind: KindTagsClass, Payload: slot})
	return info.Tags
}

// TagsClassOwner returns the union a tags container was generated for.
func (in *Interner) TagsClassOwner(tags TypeID) (TypeID, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	tt, ok := in.lookupLocked(tags)
	if !ok || tt.Kind != KindTagsClass {
		return NoTypeID, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.tags) {
		return NoTypeID, false
	}
	return in.tags[tt.Payload].Owner, true
}
