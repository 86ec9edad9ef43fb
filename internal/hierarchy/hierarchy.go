// Package hierarchy 把带父指针的平面行集合组装成森林，
// 并为每个节点计算根相对深度 (level) 与祖先名称路径 (path)。
// 部门树与文件夹树共用这一套组装逻辑。
//
// 可见性过滤必须发生在组装之前：调用方只传入主体可见的行。
// 父节点不在可见集合中的行会成为孤立的根，而不是被挂到更高层的
// 可见祖先之下（避免泄露被隐藏祖先的位置信息）。
package hierarchy

import (
	"sort"

	"github.com/leboweric/eos-platform-sub008/internal/svcerr"
)

// maxDepth 是树的深度上限，用于在数据出现环时保证遍历终止。
// 源数据没有存储层面的环检测，这里是读取侧的兜底。
const maxDepth = 64

// Node 是组装结果中的一个节点，Row 保留原始行。
type Node[T any] struct {
	Row      T
	Level    int
	Path     []string
	Children []*Node[T]
}

// Build 将平面行集合组装成森林。
//
// id / parent / name 三个取值函数把任意行类型适配进来：
//   - id 返回行的唯一标识；
//   - parent 返回父行标识，nil 表示根；
//   - name 返回用于排序与路径的显示名称。
//
// 根与每层子节点均按名称字典序排序，保证输出确定性。
// level 与 path 通过从根开始的 BFS 计算，父节点总是先于子节点被访问，
// 因此任意深度的树都能得到正确的值。
func Build[T any](rows []T, id func(T) string, parent func(T) *string, name func(T) string) []*Node[T] {
	// 1. 建立 id -> 节点 的查找表，children 初始化为空
	nodes := make(map[string]*Node[T], len(rows))
	order := make([]string, 0, len(rows))
	for _, row := range rows {
		rid := id(row)
		nodes[rid] = &Node[T]{Row: row, Children: []*Node[T]{}}
		order = append(order, rid)
	}

	// 2. 挂接父子关系；父节点不在可见集合中的行按根处理
	var roots []*Node[T]
	for _, rid := range order {
		node := nodes[rid]
		pid := parent(node.Row)
		if pid != nil && *pid != "" {
			if p, ok := nodes[*pid]; ok {
				p.Children = append(p.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	// 3. 确定性排序
	byName := func(ns []*Node[T]) {
		sort.Slice(ns, func(i, j int) bool {
			return name(ns[i].Row) < name(ns[j].Row)
		})
	}
	byName(roots)
	for _, n := range nodes {
		byName(n.Children)
	}

	// 4. BFS 计算 level 与 path（根为 0，path 含节点自身）
	queue := make([]*Node[T], 0, len(roots))
	for _, r := range roots {
		r.Level = 0
		r.Path = []string{name(r.Row)}
		queue = append(queue, r)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.Level >= maxDepth {
			// 深度越界说明数据有环或异常深的链，截断以保证终止
			continue
		}
		for _, child := range cur.Children {
			child.Level = cur.Level + 1
			child.Path = append(append([]string{}, cur.Path...), name(child.Row))
			queue = append(queue, child)
		}
	}

	return roots
}

// ValidateParent 在写入前校验把 nodeID 的父指针改为 newParentID 是否安全。
// parents 是当前全量的 id -> 父id 映射（不含待修改节点的新值）。
//
// 拒绝两类情况：自指父节点，以及会把 nodeID 变成自身祖先的环。
// 祖先遍历携带 visited 集合，即使现存数据已经成环也能终止。
func ValidateParent(nodeID string, newParentID *string, parents map[string]*string) error {
	if newParentID == nil || *newParentID == "" {
		return nil
	}
	if *newParentID == nodeID {
		return svcerr.Validation("parentId", "cannot be its own parent")
	}

	visited := map[string]struct{}{nodeID: {}}
	cur := newParentID
	for cur != nil && *cur != "" {
		if _, seen := visited[*cur]; seen {
			return svcerr.Validation("parentId", "would create a circular hierarchy")
		}
		visited[*cur] = struct{}{}
		next, ok := parents[*cur]
		if !ok {
			break
		}
		cur = next
	}
	return nil
}
