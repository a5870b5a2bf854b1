package region

import (
	"log/slog"
	"sort"

	"regionview/internal/graphics/device"
	"regionview/internal/render/arena"
	"regionview/internal/render/chunk"

	"github.com/go-gl/mathgl/mgl64"
)

// Manager owns every region, uploads freshly built chunk meshes into region
// arenas and builds the per-frame render list.
type Manager struct {
	cmd      device.CommandList
	arenaCfg arena.Config
	logger   *slog.Logger

	regions map[Key]*Region

	sortScratch []*Region
	secScratch  []*chunk.Section
}

// NewManager creates an empty manager. A nil logger discards output.
func NewManager(cmd device.CommandList, cfg arena.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		cmd:      cmd,
		arenaCfg: cfg,
		logger:   logger,
		regions:  make(map[Key]*Region),
	}
}

// Region returns the region with key k, or nil.
func (m *Manager) Region(k Key) *Region {
	return m.regions[k]
}

// RegionCount returns the number of live regions.
func (m *Manager) RegionCount() int {
	return len(m.regions)
}

// Section returns the section for chunk (cx, cy, cz), or nil.
func (m *Manager) Section(cx, cy, cz int) *chunk.Section {
	r := m.regions[KeyForChunk(cx, cy, cz)]
	if r == nil {
		return nil
	}
	return r.Section(LocalIndex(cx, cy, cz))
}

// Upload replaces the graphics state of the chunk described by mesh. Old arena
// segments are released before the new ones are allocated.
func (m *Manager) Upload(mesh *chunk.MeshData) {
	key := KeyForChunk(mesh.X, mesh.Y, mesh.Z)
	r := m.regions[key]
	if r == nil {
		r = New(key)
		m.regions[key] = r
	}
	arenas := r.EnsureArenas(func(name string) *arena.Arena {
		return arena.New(m.cmd, name, m.arenaCfg, m.logger.With("region", key))
	})

	idx := LocalIndex(mesh.X, mesh.Y, mesh.Z)
	s := r.Section(idx)
	if s == nil {
		s = chunk.NewSection(mesh.X, mesh.Y, mesh.Z, idx)
		r.SetSection(s)
	}
	s.SetBounds(mesh.Bounds)

	for _, pass := range chunk.Passes {
		if old := s.SetGraphicsState(pass, nil); old != nil {
			arenas.VertexBuffers.Free(old.VertexSegment())
			arenas.IndexBuffers.Free(old.IndexSegment())
		}

		pm := mesh.Passes[pass]
		if pm.IsEmpty() {
			continue
		}

		vseg, ok := arenas.VertexBuffers.Alloc(len(pm.Vertices), chunk.VertexStride)
		if !ok {
			m.logger.Warn("vertex arena full, chunk skipped", "x", mesh.X, "y", mesh.Y, "z", mesh.Z, "pass", pass)
			continue
		}
		iseg, ok := arenas.IndexBuffers.Alloc(len(pm.Indices), 4)
		if !ok {
			arenas.VertexBuffers.Free(vseg)
			m.logger.Warn("index arena full, chunk skipped", "x", mesh.X, "y", mesh.Y, "z", mesh.Z, "pass", pass)
			continue
		}
		arenas.VertexBuffers.Upload(vseg, pm.Vertices)
		arenas.IndexBuffers.Upload(iseg, pm.Indices)

		s.SetGraphicsState(pass, chunk.NewGraphicsState(vseg, iseg, pm.Parts))
	}
}

// Remove drops the chunk and frees its segments. Empty regions are deleted.
func (m *Manager) Remove(cx, cy, cz int) {
	key := KeyForChunk(cx, cy, cz)
	r := m.regions[key]
	if r == nil {
		return
	}
	s := r.RemoveSection(LocalIndex(cx, cy, cz))
	if s != nil && r.Arenas() != nil {
		for _, pass := range chunk.Passes {
			if st := s.SetGraphicsState(pass, nil); st != nil {
				r.Arenas().VertexBuffers.Free(st.VertexSegment())
				r.Arenas().IndexBuffers.Free(st.IndexSegment())
			}
		}
	}
	if r.IsEmpty() {
		r.Delete(m.cmd)
		delete(m.regions, key)
	}
}

// BuildRenderList fills list with every chunk inside the frustum, regions and
// chunks ordered front to back from the camera. A nil frustum keeps everything.
func (m *Manager) BuildRenderList(list *ChunkRenderList, frustum *Frustum, camera chunk.CameraContext) {
	list.Clear()

	regions := m.sortScratch[:0]
	for _, r := range m.regions {
		regions = append(regions, r)
	}
	sort.Slice(regions, func(i, j int) bool {
		return regionDistanceSq(regions[i], camera) < regionDistanceSq(regions[j], camera)
	})
	m.sortScratch = regions

	for _, r := range regions {
		sections := m.secScratch[:0]
		for _, s := range r.sections {
			if s == nil {
				continue
			}
			b := s.Bounds()
			if !frustum.IntersectsBounds(b) {
				continue
			}
			sections = append(sections, s)
		}
		sort.Slice(sections, func(i, j int) bool {
			return sectionDistanceSq(sections[i], camera) < sectionDistanceSq(sections[j], camera)
		})
		for _, s := range sections {
			list.Add(r, s)
		}
		m.secScratch = sections
	}
}

// Delete releases every region.
func (m *Manager) Delete() {
	for k, r := range m.regions {
		r.Delete(m.cmd)
		delete(m.regions, k)
	}
}

var regionHalfExtent = mgl64.Vec3{Width * chunk.Size / 2, Height * chunk.Size / 2, Length * chunk.Size / 2}

func regionDistanceSq(r *Region, c chunk.CameraContext) float64 {
	origin := mgl64.Vec3{float64(r.OriginX()), float64(r.OriginY()), float64(r.OriginZ())}
	return origin.Add(regionHalfExtent).Sub(c.Pos).LenSqr()
}

func sectionDistanceSq(s *chunk.Section, c chunk.CameraContext) float64 {
	center := s.Bounds().Center()
	return mgl64.Vec3{float64(center[0]), float64(center[1]), float64(center[2])}.Sub(c.Pos).LenSqr()
}
