package editor

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"wildfox-engine/internal/commands"
	"wildfox-engine/internal/scene"
)

// Console runs typed editor commands against a Layer. Output goes to the layer's logger,
// which the console panel displays.
type Console struct {
	layer   *Layer
	reg     *commands.Registry
	history []string
}

// NewConsole registers the built-in commands.
func NewConsole(l *Layer) *Console {
	c := &Console{layer: l, reg: commands.NewRegistry()}
	c.registerRender()
	c.registerScene()
	c.registerObject()
	c.reg.Register("help", "help", nil, func([]string) error {
		for _, n := range c.reg.Names() {
			cmd, _ := c.reg.Lookup(n)
			c.layer.log.Info(cmd.Usage)
		}
		return nil
	})
	return c
}

// Commands exposes the registry so embedders can add their own commands.
func (c *Console) Commands() *commands.Registry { return c.reg }

// History returns submitted lines, oldest first.
func (c *Console) History() []string { return append([]string(nil), c.history...) }

// Exec parses and runs one line. Blank lines are ignored.
func (c *Console) Exec(line string) error {
	args, ok := commands.Parse(line)
	if !ok {
		return nil
	}
	c.history = append(c.history, line)
	c.layer.log.Info("> " + line)
	if err := c.reg.Execute(args); err != nil {
		c.layer.log.Warn("command failed", "err", err)
		return err
	}
	return nil
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func (c *Console) toggle(name, usage string, get func() bool, set func(bool)) {
	c.reg.Register(name, usage, nil, func(args []string) error {
		v, err := commands.ParseSwitch(arg(args, 0), get())
		if err != nil {
			return err
		}
		set(v)
		c.layer.log.Info(fmt.Sprintf("%s %t", name, v))
		return nil
	})
}

func parseVec3(args []string) (mgl32.Vec3, error) {
	if len(args) != 3 {
		return mgl32.Vec3{}, errors.New("expected three numbers")
	}
	var v mgl32.Vec3
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("bad number %q", s)
		}
		v[i] = float32(f)
	}
	return v, nil
}

func (c *Console) registerRender() {
	p := c.layer.pipe
	c.toggle("wireframe", "wireframe [on|off]",
		func() bool { return p.Settings().Wireframe }, p.EnableWireframe)
	c.toggle("depth", "depth [on|off]",
		func() bool { return p.Settings().DepthTest }, p.EnableDepthTest)
	c.toggle("cull", "cull [on|off]",
		func() bool { return p.Settings().CullFace }, p.EnableCullFace)
	c.toggle("msaa", "msaa [on|off]",
		func() bool { return p.Settings().Multisample }, p.EnableMultisample)
	c.toggle("grid", "grid [on|off]",
		func() bool { return c.layer.Panels.Grid }, func(on bool) { c.layer.Panels.Grid = on })

	c.reg.Register("clearcolor", "clearcolor r g b", nil, func(args []string) error {
		v, err := parseVec3(args)
		if err != nil {
			return err
		}
		p.SetClearColor(v.Vec4(1))
		return nil
	})
	c.reg.Register("reload", "reload <shader>", nil, func(args []string) error {
		name := arg(args, 0)
		if name == "" {
			return errors.New("missing shader name")
		}
		if !c.layer.ReloadShader(name) {
			return fmt.Errorf("shader %q kept its previous program", name)
		}
		return nil
	})
}

func (c *Console) registerScene() {
	l := c.layer
	c.reg.Register("spawn", "spawn <primitive>", nil, func(args []string) error {
		_, err := l.RequestCreate(arg(args, 0))
		return err
	})
	c.reg.Register("delete", "delete selected|<id>", nil, func(args []string) error {
		target := arg(args, 0)
		if target == "" || target == "selected" {
			if !l.RequestRemoveSelected() {
				return ErrNoSelection
			}
			return nil
		}
		id, err := strconv.ParseUint(target, 10, 64)
		if err != nil {
			return fmt.Errorf("bad id %q", target)
		}
		l.Remove(scene.ID(id))
		return nil
	})
	c.reg.Register("select", "select <id>|none", nil, func(args []string) error {
		target := arg(args, 0)
		if target == "none" {
			l.Deselect()
			return nil
		}
		id, err := strconv.ParseUint(target, 10, 64)
		if err != nil {
			return fmt.Errorf("bad id %q", target)
		}
		if !l.Select(scene.ID(id)) {
			return fmt.Errorf("%d: %w", id, scene.ErrNotFound)
		}
		return nil
	})
	c.reg.Register("clear", "clear", nil, func([]string) error {
		l.ClearScene()
		return nil
	})
	c.reg.Register("dup", "dup", nil, func([]string) error {
		_, err := l.DuplicateSelected()
		return err
	})
	c.reg.Register("list", "list", nil, func([]string) error {
		for _, e := range l.Hierarchy() {
			mark := " "
			if e.Selected {
				mark = "*"
			}
			l.log.Info(fmt.Sprintf("%s %d %s active=%t", mark, e.ID, e.Name, e.Active))
		}
		return nil
	})
}

func (c *Console) registerObject() {
	l := c.layer
	selected := func() (*scene.Object, error) {
		o, ok := l.Selected()
		if !ok {
			return nil, ErrNoSelection
		}
		return o, nil
	}

	fs := flag.NewFlagSet("rotate", flag.ContinueOnError)
	speed := fs.Float64("speed", 0, "degrees per second")
	c.reg.Register("rotate", "rotate [-speed deg] on|off [deg]", fs, func(args []string) error {
		o, err := selected()
		if err != nil {
			return err
		}
		on, err := commands.ParseSwitch(arg(args, 0), o.Params.AutoRotate)
		if err != nil {
			return err
		}
		s := float32(*speed)
		*speed = 0
		if v := arg(args, 1); v != "" {
			f, err := strconv.ParseFloat(v, 32)
			if err != nil {
				return fmt.Errorf("bad speed %q", v)
			}
			s = float32(f)
		}
		l.SetAutoRotate(o, on, s)
		return nil
	})
	c.reg.Register("color", "color r g b", nil, func(args []string) error {
		o, err := selected()
		if err != nil {
			return err
		}
		v, err := parseVec3(args)
		if err != nil {
			return err
		}
		l.SetColor(o, v)
		return nil
	})
	c.reg.Register("texture", "texture <path>", nil, func(args []string) error {
		o, err := selected()
		if err != nil {
			return err
		}
		path := strings.Join(args, " ")
		if path == "" {
			return errors.New("missing path")
		}
		return l.SetTexture(o, path)
	})
	c.reg.Register("rename", "rename <name>", nil, func(args []string) error {
		o, err := selected()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return errors.New("missing name")
		}
		o.Name = strings.Join(args, " ")
		return nil
	})
	c.toggle("active", "active [on|off]",
		func() bool {
			o, ok := l.Selected()
			return ok && o.Active
		},
		func(on bool) {
			if o, ok := l.Selected(); ok {
				o.Active = on
			}
		})
}
