package scene

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

const dumpRule = "*********************************************************************\n"

// ExportString renders a node as an indented text tree: container names at
// their depth, sampled values at time zero below them.
func ExportString(n Node) string {
	var b strings.Builder
	b.WriteString(dumpRule)
	fmt.Fprintf(&b, "Type: %s\n", n.Type)
	if n.Data != nil {
		writeDataSource(&b, n.Data, 0)
	}
	b.WriteString(dumpRule)
	return b.String()
}

// Dump writes ExportString(n) to w.
func Dump(w io.Writer, n Node) error {
	_, err := io.WriteString(w, ExportString(n))
	return err
}

func writeDataSource(b *strings.Builder, ds DataSource, depth int) {
	prefix := strings.Repeat("    ", depth)
	switch d := ds.(type) {
	case Container:
		for _, name := range d.Names() {
			b.WriteString(prefix + string(name) + "\n")
			if child, ok := d.Get(name); ok {
				writeDataSource(b, child, depth+1)
			}
		}
	case Vector:
		fmt.Fprintf(b, "%sis a vector data source of size %d\n", prefix, d.Len())
		for i := 0; i < d.Len(); i++ {
			if elem, ok := d.Element(i); ok {
				writeDataSource(b, elem, depth+1)
			}
		}
	case Sampled:
		v := d.Value(0)
		fmt.Fprintf(b, "%sis a sampled data source of type %T\n", prefix, v)
		valuePrefix := prefix + prefix + "value: "
		lines, ok := formatValue(v)
		if !ok {
			fmt.Fprintf(b, "[WARNING] type %T is not supported\n", v)
			return
		}
		for _, line := range lines {
			b.WriteString(valuePrefix + line + "\n")
		}
	}
}

func formatValue(v any) ([]string, bool) {
	switch x := v.(type) {
	case Token:
		return []string{string(x)}, true
	case bool:
		return []string{strconv.FormatBool(x)}, true
	case int32:
		return []string{strconv.Itoa(int(x))}, true
	case []bool:
		return mapLines(x, strconv.FormatBool), true
	case []int32:
		return mapLines(x, func(i int32) string { return strconv.Itoa(int(i)) }), true
	case []float32:
		return mapLines(x, func(f float32) string { return fmt.Sprintf("%f", f) }), true
	case []Path:
		return mapLines(x, Path.String), true
	case mgl32.Vec3:
		return []string{formatVec3(x)}, true
	case []mgl32.Vec3:
		return mapLines(x, formatVec3), true
	case []mgl32.Quat:
		return mapLines(x, func(q mgl32.Quat) string {
			return fmt.Sprintf("(%f, %f, %f, %f)", q.W, q.V[0], q.V[1], q.V[2])
		}), true
	case mgl64.Mat4:
		rows := make([]string, 4)
		for i := range rows {
			r := x.Row(i)
			rows[i] = fmt.Sprintf("{%f, %f, %f, %f}", r[0], r[1], r[2], r[3])
		}
		return []string{"(" + strings.Join(rows, ", ") + ")"}, true
	default:
		return nil, false
	}
}

func formatVec3(v mgl32.Vec3) string {
	return fmt.Sprintf("(%f, %f, %f)", v[0], v[1], v[2])
}

func mapLines[T any](xs []T, f func(T) string) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}
	return out
}

// ------------------------------------------------------------------------
// YAML
// ------------------------------------------------------------------------

// EncodeYAML writes n as a YAML document with "type" and "data" keys.
// Container order is preserved.
func EncodeYAML(w io.Writer, n Node) error {
	doc := mapping(
		scalar("!!str", "type"), scalar("!!str", string(n.Type)),
		scalar("!!str", "data"), yamlDataSource(n.Data),
	)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("scene: encode yaml: %w", err)
	}
	return enc.Close()
}

func yamlDataSource(ds DataSource) *yaml.Node {
	switch d := ds.(type) {
	case nil:
		return scalar("!!null", "null")
	case Container:
		m := mapping()
		for _, name := range d.Names() {
			child, _ := d.Get(name)
			m.Content = append(m.Content, scalar("!!str", string(name)), yamlDataSource(child))
		}
		return m
	case Vector:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for i := 0; i < d.Len(); i++ {
			elem, _ := d.Element(i)
			seq.Content = append(seq.Content, yamlDataSource(elem))
		}
		return seq
	case Sampled:
		return yamlValue(d.Value(0))
	default:
		return scalar("!!null", "null")
	}
}

func yamlValue(v any) *yaml.Node {
	switch x := v.(type) {
	case Token:
		return scalar("!!str", string(x))
	case bool:
		return scalar("!!bool", strconv.FormatBool(x))
	case []int32:
		return flowSeq(mapLines(x, func(i int32) string { return strconv.Itoa(int(i)) }), "!!int")
	case []float32:
		return flowSeq(mapLines(x, formatFloat), "!!float")
	case []Path:
		return flowSeq(mapLines(x, Path.String), "!!str")
	case []mgl32.Vec3:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, p := range x {
			seq.Content = append(seq.Content, flowSeq(mapLines(p[:], formatFloat), "!!float"))
		}
		return seq
	case []mgl32.Quat:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, q := range x {
			seq.Content = append(seq.Content,
				flowSeq(mapLines([]float32{q.W, q.V[0], q.V[1], q.V[2]}, formatFloat), "!!float"))
		}
		return seq
	case mgl64.Mat4:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for i := 0; i < 4; i++ {
			r := x.Row(i)
			seq.Content = append(seq.Content, flowSeq(mapLines(r[:], func(f float64) string {
				return strconv.FormatFloat(f, 'g', -1, 64)
			}), "!!float"))
		}
		return seq
	default:
		return scalar("!!str", fmt.Sprintf("%v", v))
	}
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func mapping(content ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Content: content}
}

func flowSeq(values []string, tag string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range values {
		seq.Content = append(seq.Content, scalar(tag, v))
	}
	return seq
}
