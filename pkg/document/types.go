package document

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Format 输入文档格式类型
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatUnknown  Format = "unknown"
)

// Metadata 文档元数据
type Metadata struct {
	Title        string
	Subtitle     string
	Author       string
	Abstract     string
	Language     string
	CreatedAt    time.Time
	CustomFields map[string]interface{}
}

// PageReferences 稳定标识符到页码的映射（页码从 1 开始）
type PageReferences map[string]int

// Equal 比较两张页码表是否完全一致
func (p PageReferences) Equal(other PageReferences) bool {
	if len(p) != len(other) {
		return false
	}
	for id, page := range p {
		if otherPage, ok := other[id]; !ok || otherPage != page {
			return false
		}
	}
	return true
}

// Clone 复制页码表
func (p PageReferences) Clone() PageReferences {
	clone := make(PageReferences, len(p))
	for id, page := range p {
		clone[id] = page
	}
	return clone
}

// Document 表示一次构建中的文档
//
// 索引注册表和页码表都归文档所有，生命周期与一次构建相同。
type Document struct {
	// ID 本次构建的唯一标识
	ID string

	// Format 输入格式
	Format Format

	// Metadata 文档元数据
	Metadata Metadata

	// Flowables 文档内容（按顺序排版）
	Flowables []Flowable

	// Index 索引注册表，在 prepare 阶段填充
	Index *IndexRegistry

	// PageReferences 页码表，在每次渲染中写入
	PageReferences PageReferences

	// Titles 可引用目标的标题
	Titles map[string]string

	// Numbers 可引用目标的编号（章节号、引文号）
	Numbers map[string]string

	// Sections 按文档顺序登记的章节
	Sections []SectionEntry

	// Citations 引文键到目标 ID 的映射
	Citations map[string]string

	mu         sync.Mutex
	prepared   bool
	prepareErr error // prepare 阶段失败的原因，失败后注册表可能不完整
	idCounters map[string]int
	unresolved map[string]ReferenceKind
	unresOrder []string
}

// SectionEntry 目录使用的章节登记项
type SectionEntry struct {
	ID    string
	Level int
}

// UnresolvedReference 未能解析的引用
type UnresolvedReference struct {
	TargetID string
	Kind     ReferenceKind
}

// NewDocument 创建新文档
func NewDocument(format Format, flowables ...Flowable) *Document {
	return &Document{
		ID:     uuid.New().String(),
		Format: format,
		Metadata: Metadata{
			CreatedAt:    time.Now(),
			CustomFields: make(map[string]interface{}),
		},
		Flowables:      flowables,
		Index:          NewIndexRegistry(),
		PageReferences: make(PageReferences),
		Titles:         make(map[string]string),
		Numbers:        make(map[string]string),
		Citations:      make(map[string]string),
		idCounters:     make(map[string]int),
		unresolved:     make(map[string]ReferenceKind),
	}
}

// Append 追加内容
func (d *Document) Append(flowables ...Flowable) {
	d.Flowables = append(d.Flowables, flowables...)
}

// Prepare 执行 prepare 阶段：遍历整棵树一次，让所有目标登记自身
//
// 每次构建只能调用一次，成功后重复调用返回 ErrAlreadyPrepared。
// 失败后不会重新遍历（目标已部分登记），之后的调用都返回同一个错误。
func (d *Document) Prepare() error {
	d.mu.Lock()
	if d.prepared {
		err := d.prepareErr
		d.mu.Unlock()
		if err != nil {
			return err
		}
		return ErrAlreadyPrepared
	}
	d.prepared = true
	d.mu.Unlock()

	var err error
	for i, f := range d.Flowables {
		if err = f.Prepare(d); err != nil {
			err = fmt.Errorf("prepare flowable %d: %w", i, err)
			break
		}
	}

	d.mu.Lock()
	d.prepareErr = err
	d.mu.Unlock()
	return err
}

// Prepared 是否已成功完成 prepare 阶段
func (d *Document) Prepared() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.prepared && d.prepareErr == nil
}

// NextID 为没有显式标识的目标生成文档内唯一的标识
func (d *Document) NextID(prefix string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.idCounters[prefix]++
	return fmt.Sprintf("%s-%d", prefix, d.idCounters[prefix])
}

// SetPageReference 记录目标所在页码，后一次渲染会覆盖前一次的值
func (d *Document) SetPageReference(id string, page int) {
	d.PageReferences[id] = page
}

// PageReference 查询目标所在页码
func (d *Document) PageReference(id string) (int, bool) {
	page, ok := d.PageReferences[id]
	return page, ok
}

// NoteUnresolved 记录一个未解析的引用，供构建结束后诊断
func (d *Document) NoteUnresolved(id string, kind ReferenceKind) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, seen := d.unresolved[id]; !seen {
		d.unresOrder = append(d.unresOrder, id)
	}
	d.unresolved[id] = kind
}

// Unresolved 返回当前渲染中未解析的引用（按首次出现顺序）
func (d *Document) Unresolved() []UnresolvedReference {
	d.mu.Lock()
	defer d.mu.Unlock()
	refs := make([]UnresolvedReference, 0, len(d.unresOrder))
	for _, id := range d.unresOrder {
		refs = append(refs, UnresolvedReference{TargetID: id, Kind: d.unresolved[id]})
	}
	return refs
}

// BeginPass 开始新一轮渲染：清空未解析引用记录，返回上一轮页码表的快照
func (d *Document) BeginPass() PageReferences {
	d.mu.Lock()
	d.unresolved = make(map[string]ReferenceKind)
	d.unresOrder = nil
	d.mu.Unlock()
	return d.PageReferences.Clone()
}
