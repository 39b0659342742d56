package document

// TermKey 索引词条的比较键：(条目名, 子条目名)
type TermKey struct {
	Name     string
	Subentry string
}

// Less 按元组字典序比较
func (k TermKey) Less(other TermKey) bool {
	if k.Name != other.Name {
		return k.Name < other.Name
	}
	return k.Subentry < other.Subentry
}

// IndexTerm 一个索引词条
//
// 相等性、排序和哈希只取决于 (Name, Subentry)，与产生它的目标节点无关。
// Subentry 为空表示没有子条目。
type IndexTerm struct {
	Name     string
	Subentry string
	Target   Referenceable
}

// NewIndexTerm 创建索引词条
func NewIndexTerm(target Referenceable, name string, subentry ...string) IndexTerm {
	term := IndexTerm{Name: name, Target: target}
	if len(subentry) > 0 {
		term.Subentry = subentry[0]
	}
	return term
}

// Key 返回可用作 map 键的比较元组
func (t IndexTerm) Key() TermKey {
	return TermKey{Name: t.Name, Subentry: t.Subentry}
}

// Equal 判断两个词条是否指向同一个条目
func (t IndexTerm) Equal(other IndexTerm) bool {
	return t.Key() == other.Key()
}

// Less 按 (Name, Subentry) 字典序排序
func (t IndexTerm) Less(other IndexTerm) bool {
	return t.Key().Less(other.Key())
}

// HasSubentry 是否带子条目
func (t IndexTerm) HasSubentry() bool {
	return t.Subentry != ""
}

func (t IndexTerm) String() string {
	if t.Subentry == "" {
		return t.Name
	}
	return t.Name + "!" + t.Subentry
}
