package document

// IndexEntry 注册表中的一项：词条和持有它的目标标识
type IndexEntry struct {
	Term     IndexTerm
	TargetID string
}

// SubentryGroup 某个子条目下按注册顺序排列的目标
type SubentryGroup struct {
	Name    string // 空字符串表示顶层（无子条目）
	Entries []IndexEntry
}

// EntryGroup 某个条目的全部子条目
type EntryGroup struct {
	Name       string
	Subentries []SubentryGroup
}

// IndexRegistry 索引注册表
//
// 条目名 -> 子条目名 -> (词条, 目标) 列表。prepare 阶段单调追加，
// 渲染阶段只读。同一 (条目, 子条目) 重复注册会累积，不去重。
// 两个阶段都是单线程的顺序遍历，注册表不加锁。
type IndexRegistry struct {
	entries  map[string]map[string][]IndexEntry
	names    []string            // 条目名的首次注册顺序
	subNames map[string][]string // 每个条目下子条目名的首次注册顺序
	count    int
}

// NewIndexRegistry 创建空注册表
func NewIndexRegistry() *IndexRegistry {
	return &IndexRegistry{
		entries:  make(map[string]map[string][]IndexEntry),
		subNames: make(map[string][]string),
	}
}

// Register 在 (term.Name, term.Subentry) 下追加一项
func (r *IndexRegistry) Register(term IndexTerm, targetID string) {
	subentries, exists := r.entries[term.Name]
	if !exists {
		subentries = make(map[string][]IndexEntry)
		r.entries[term.Name] = subentries
		r.names = append(r.names, term.Name)
	}
	if _, exists := subentries[term.Subentry]; !exists {
		r.subNames[term.Name] = append(r.subNames[term.Name], term.Subentry)
	}
	subentries[term.Subentry] = append(subentries[term.Subentry], IndexEntry{
		Term:     term,
		TargetID: targetID,
	})
	r.count++
}

// Lookup 返回 (name, subentry) 下的目标，不存在时返回空切片
func (r *IndexRegistry) Lookup(name, subentry string) []IndexEntry {
	list := r.entries[name][subentry]
	out := make([]IndexEntry, len(list))
	copy(out, list)
	return out
}

// Has 检查 (name, subentry) 是否被注册过
func (r *IndexRegistry) Has(name, subentry string) bool {
	subentries, ok := r.entries[name]
	if !ok {
		return false
	}
	_, ok = subentries[subentry]
	return ok
}

// Snapshot 返回注册表的深拷贝，保持注册顺序
func (r *IndexRegistry) Snapshot() []EntryGroup {
	groups := make([]EntryGroup, 0, len(r.names))
	for _, name := range r.names {
		group := EntryGroup{Name: name}
		for _, sub := range r.subNames[name] {
			list := r.entries[name][sub]
			entries := make([]IndexEntry, len(list))
			copy(entries, list)
			group.Subentries = append(group.Subentries, SubentryGroup{Name: sub, Entries: entries})
		}
		groups = append(groups, group)
	}
	return groups
}

// Len 条目数
func (r *IndexRegistry) Len() int {
	return len(r.names)
}

// Count 已注册的 (词条, 目标) 总数
func (r *IndexRegistry) Count() int {
	return r.count
}
