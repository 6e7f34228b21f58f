package viewer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/pkg/mesh"
)

// GroupKind identifies the role of a group in the render scene.
type GroupKind int

const (
	GroupPrimary GroupKind = iota
	GroupWireframe
	GroupNormals
	GroupAxes
)

func (k GroupKind) String() string {
	switch k {
	case GroupPrimary:
		return "primary"
	case GroupWireframe:
		return "wireframe"
	case GroupNormals:
		return "normals"
	case GroupAxes:
		return "axes"
	}
	return "unknown"
}

// Drawable is one geometry drawn with one material.
type Drawable struct {
	Name     string
	Geometry *mesh.Geometry
	Material *Material
}

// Group is a set of drawables added to and removed from the scene together.
type Group struct {
	Kind       GroupKind
	Name       string
	Generation uint64
	Children   []*Drawable
}

// RenderScene is the ordered list of groups the renderer draws.
type RenderScene struct {
	groups []*Group
}

// NewRenderScene creates an empty scene.
func NewRenderScene() *RenderScene {
	return &RenderScene{}
}

// Add appends g unless it is already present.
func (s *RenderScene) Add(g *Group) {
	if g == nil || s.Contains(g) {
		return
	}
	s.groups = append(s.groups, g)
}

// Remove removes g and reports whether it was present.
func (s *RenderScene) Remove(g *Group) bool {
	for i, existing := range s.groups {
		if existing == g {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether g is in the scene.
func (s *RenderScene) Contains(g *Group) bool {
	for _, existing := range s.groups {
		if existing == g {
			return true
		}
	}
	return false
}

// Groups returns the groups in draw order. The slice must not be modified.
func (s *RenderScene) Groups() []*Group {
	return s.groups
}

// GroupsOfKind returns the groups with the given kind.
func (s *RenderScene) GroupsOfKind(kind GroupKind) []*Group {
	var out []*Group
	for _, g := range s.groups {
		if g.Kind == kind {
			out = append(out, g)
		}
	}
	return out
}

// SceneState is the controller's lifecycle state.
type SceneState int

const (
	StateEmpty SceneState = iota
	StateLoaded
)

func (s SceneState) String() string {
	if s == StateLoaded {
		return "loaded"
	}
	return "empty"
}

// SceneController owns the loaded mesh and its three derived groups:
// the shaded primary group, the wireframe twin and the normal overlay.
// The render scene holds either none or all three, built from one mesh.
type SceneController struct {
	scene *RenderScene
	bank  *MaterialBank
	log   *zap.Logger

	state        SceneState
	mode         ShadingMode
	overlayScale float32

	primary   *Group
	wireframe *Group
	normals   *Group
}

// NewSceneController creates a controller in the Empty state.
func NewSceneController(scene *RenderScene, bank *MaterialBank, mode ShadingMode, overlayScale float32, log *zap.Logger) *SceneController {
	return &SceneController{
		scene:        scene,
		bank:         bank,
		log:          log,
		mode:         mode,
		overlayScale: overlayScale,
	}
}

// State returns the lifecycle state.
func (c *SceneController) State() SceneState { return c.state }

// Mode returns the active shading mode.
func (c *SceneController) Mode() ShadingMode { return c.mode }

// OverlayScale returns the normal overlay scale.
func (c *SceneController) OverlayScale() float32 { return c.overlayScale }

// Groups returns the current primary, wireframe and normal overlay groups.
// All three are nil while Empty.
func (c *SceneController) Groups() (primary, wireframe, normals *Group) {
	return c.primary, c.wireframe, c.normals
}

// Generation returns the generation of the loaded mesh.
func (c *SceneController) Generation() uint64 {
	if c.primary == nil {
		return 0
	}
	return c.primary.Generation
}

// LoadMesh replaces the scene contents with groups built from m.
// m itself is not modified. A nil mesh is logged and ignored; parts without
// geometry are logged and skipped.
func (c *SceneController) LoadMesh(m *mesh.Mesh, generation uint64) bool {
	if m == nil {
		c.log.Warn("ignoring nil mesh", zap.Uint64("generation", generation))
		return false
	}

	shaded, wire, err := c.bank.Pair(c.mode)
	if err != nil {
		c.log.Error("no materials for shading mode", zap.Stringer("mode", c.mode), zap.Error(err))
		return false
	}

	src := &mesh.Mesh{Name: m.Name}
	for i, part := range m.Parts {
		if part == nil || part.Geometry == nil {
			c.log.Warn("skipping part without geometry", zap.String("mesh", m.Name), zap.Int("part", i))
			continue
		}
		src.Parts = append(src.Parts, part)
	}

	wireSrc := src.Clone()
	primarySrc := src.Clone()

	primary := &Group{Kind: GroupPrimary, Name: m.Name, Generation: generation}
	wireframe := &Group{Kind: GroupWireframe, Name: m.Name + " wireframe", Generation: generation}

	for i, part := range primarySrc.Parts {
		g := part.Geometry
		if err := mesh.UnifyVertices(g); err != nil {
			c.log.Warn("skipping vertex unification", zap.String("part", part.Name), zap.Error(err))
		}
		c.computeTangents(part)

		primary.Children = append(primary.Children, &Drawable{Name: part.Name, Geometry: g, Material: shaded})
		wireframe.Children = append(wireframe.Children, &Drawable{
			Name:     part.Name,
			Geometry: wireSrc.Parts[i].Geometry,
			Material: wire,
		})
	}

	normals := c.buildOverlay(primary, generation)

	// swap all three at once
	c.detach()
	c.primary, c.wireframe, c.normals = primary, wireframe, normals
	c.scene.Add(primary)
	c.scene.Add(wireframe)
	c.scene.Add(normals)
	c.state = StateLoaded

	c.log.Info("mesh loaded",
		zap.String("name", m.Name),
		zap.Int("parts", len(src.Parts)),
		zap.Int("triangles", src.TriangleCount()),
		zap.Uint64("generation", generation))
	return true
}

// SetNormalOverlayScale stores the scale and, when a mesh is loaded,
// replaces the overlay with one built at the new scale.
func (c *SceneController) SetNormalOverlayScale(scale float32) {
	c.overlayScale = scale
	if c.state != StateLoaded {
		return
	}
	c.replaceOverlay()
}

// SetShadingMode binds the mode's material pair to the primary and wireframe
// groups. Every call recomputes tangents on the primary geometry and rebuilds
// the normal overlay, even when the mode is unchanged.
func (c *SceneController) SetShadingMode(mode ShadingMode) error {
	shaded, wire, err := c.bank.Pair(mode)
	if err != nil {
		return err
	}
	c.mode = mode
	if c.state != StateLoaded {
		return nil
	}

	for _, d := range c.primary.Children {
		c.computeTangents(&mesh.Part{Name: d.Name, Geometry: d.Geometry})
		d.Material = shaded
	}
	for _, d := range c.wireframe.Children {
		d.Material = wire
	}
	c.replaceOverlay()
	return nil
}

func (c *SceneController) computeTangents(part *mesh.Part) {
	if err := mesh.ComputeTangents(part.Geometry); err != nil {
		c.log.Debug("no tangents for part", zap.String("part", part.Name), zap.Error(err))
	}
}

// buildOverlay derives normal lines from every primary part. A part whose
// attribute counts disagree gets no overlay; its siblings still do.
func (c *SceneController) buildOverlay(primary *Group, generation uint64) *Group {
	overlay := &Group{Kind: GroupNormals, Name: primary.Name + " normals", Generation: generation}
	lines := c.bank.Material(NormalLineMaterial)

	for _, d := range primary.Children {
		g, err := overlaySource(d.Geometry)
		if err == nil {
			g, err = NormalLines(g, c.overlayScale)
		}
		if err != nil {
			c.log.Error("cannot build normal overlay", zap.String("part", d.Name), zap.Error(err))
			continue
		}
		overlay.Children = append(overlay.Children, &Drawable{Name: d.Name, Geometry: g, Material: lines})
	}
	return overlay
}

func (c *SceneController) replaceOverlay() {
	overlay := c.buildOverlay(c.primary, c.primary.Generation)
	c.scene.Remove(c.normals)
	c.normals = overlay
	c.scene.Add(overlay)
}

// detach removes the current groups from the scene.
func (c *SceneController) detach() {
	if c.state != StateLoaded {
		return
	}
	c.scene.Remove(c.primary)
	c.scene.Remove(c.wireframe)
	c.scene.Remove(c.normals)
}

// Partition splits the scene into opaque and transparent drawables, keeping
// scene order within each. Transparent drawables at zero opacity are left
// out since they contribute nothing.
func (s *RenderScene) Partition() (opaque, transparent []*Drawable) {
	for _, g := range s.groups {
		for _, d := range g.Children {
			if d.Material == nil {
				continue
			}
			if !d.Material.Spec.Transparent {
				opaque = append(opaque, d)
				continue
			}
			if u, ok := d.Material.Uniform(UniformOpacity); ok && u.Type == UniformFloat && u.Float <= 0 {
				continue
			}
			transparent = append(transparent, d)
		}
	}
	return opaque, transparent
}
