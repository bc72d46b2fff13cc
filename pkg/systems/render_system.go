package systems

import (
	"bytes"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gonewx/snowglobe/pkg/components"
	"github.com/gonewx/snowglobe/pkg/entities"
	"github.com/gonewx/snowglobe/pkg/utils"
)

// maxBatchVertices uint16 索引上限（4 顶点/粒子）
const maxBatchVertices = 65532

// SceneView 一帧渲染所需的全部只读状态
type SceneView struct {
	Background color.RGBA
	FOV        float64
	Camera     components.CameraState
	Model      components.ModelState

	Tree      []entities.TreePoint
	Lights    *LightSystem
	Snow      *SnowfallSystem
	Fireworks []*FireworkBurst

	Hand        *components.HandFrame // 可为 nil
	ShowHand    bool
	Status      string
	Celebrating bool
	Celebration float64 // 横幅进度 [0, 1]
}

// RenderSystem 3D 点云渲染
//
// 渲染流程：
//  1. 背景色填充（与雾颜色相同）
//  2. 树（模型空间，绕 Y 轴旋转）
//  3. 雪花（普通 Alpha 混合）
//  4. 烟花（加法混合）
//  5. 手部骨架、状态栏、庆祝横幅
//
// 每个点生成 4 个顶点（2 个三角形），同一混合模式的点合批绘制。
// 粒子缓冲区的 dirty 标记在本帧上传（构建顶点）后清除。
type RenderSystem struct {
	dot       *ebiten.Image
	vertices  []ebiten.Vertex // 复用，避免每帧分配
	indices   []uint16
	fontSrc   *text.GoTextFaceSource
	statusFnt *text.GoTextFace
	bannerFnt *text.GoTextFace
}

// NewRenderSystem 创建渲染系统。贴图和字体在首次 Draw 时创建。
func NewRenderSystem() *RenderSystem {
	return &RenderSystem{
		vertices: make([]ebiten.Vertex, 0, 4*4096),
		indices:  make([]uint16, 0, 6*4096),
	}
}

func (s *RenderSystem) ensureResources() {
	if s.dot == nil {
		s.dot = newDotImage(32)
	}
	if s.fontSrc == nil {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			log.Printf("[RenderSystem] Failed to load font: %v", err)
			return
		}
		s.fontSrc = src
		s.statusFnt = &text.GoTextFace{Source: src, Size: 20}
		s.bannerFnt = &text.GoTextFace{Source: src, Size: 64}
	}
}

// newDotImage 生成中心不透明、边缘渐隐的圆形粒子贴图
func newDotImage(size int) *ebiten.Image {
	pix := make([]byte, size*size*4)
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			d := math.Sqrt(dx*dx+dy*dy) / r
			a := utils.Clamp01(1 - d)
			a = a * a * (3 - 2*a)
			v := byte(a * 255)
			i := (y*size + x) * 4
			// 预乘 alpha
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, v
		}
	}
	img := ebiten.NewImage(size, size)
	img.WritePixels(pix)
	return img
}

// Draw 绘制一帧
func (s *RenderSystem) Draw(screen *ebiten.Image, view *SceneView) {
	s.ensureResources()
	screen.Fill(view.Background)

	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	proj := NewProjector(w, h, view.FOV, view.Camera)

	s.begin()
	s.appendTree(proj, view)
	s.appendSnow(proj, view.Snow)
	s.flush(screen, false)

	s.begin()
	for _, b := range view.Fireworks {
		if b.Released() {
			continue
		}
		s.appendBurst(screen, proj, b)
	}
	s.flush(screen, true)

	if view.ShowHand && view.Hand.IsComplete() {
		drawHand(screen, view.Hand)
	}
	s.drawStatus(screen, view.Status)
	if view.Celebrating {
		s.drawBanner(screen, view.Celebration)
	}
}

func (s *RenderSystem) begin() {
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
}

// appendPoint 添加一个点的 4 个顶点。
// fog 按深度把颜色混向 0（加法混合）或降低 alpha（普通混合）。
func (s *RenderSystem) appendPoint(proj Projector, p components.Vec3, size float64, r, g, b, a float32) {
	sx, sy, scale, depth, ok := proj.Project(p)
	if !ok {
		return
	}
	half := float32(size * scale)
	if half < 0.5 {
		half = 0.5
	}
	fade := float32(1 - FogFactor(depth))
	a *= fade
	if a <= 0 {
		return
	}

	x, y := float32(sx), float32(sy)
	if x+half < 0 || y+half < 0 || x-half > float32(proj.Width) || y-half > float32(proj.Height) {
		return
	}

	sw := float32(s.dot.Bounds().Dx())
	base := uint16(len(s.vertices))
	s.vertices = append(s.vertices,
		ebiten.Vertex{DstX: x - half, DstY: y - half, SrcX: 0, SrcY: 0, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		ebiten.Vertex{DstX: x + half, DstY: y - half, SrcX: sw, SrcY: 0, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		ebiten.Vertex{DstX: x - half, DstY: y + half, SrcX: 0, SrcY: sw, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		ebiten.Vertex{DstX: x + half, DstY: y + half, SrcX: sw, SrcY: sw, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
	)
	s.indices = append(s.indices,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

func (s *RenderSystem) appendTree(proj Projector, view *SceneView) {
	for _, tp := range view.Tree {
		r, g, b := tp.R, tp.G, tp.B
		if tp.Light >= 0 && view.Lights != nil && tp.Light < len(view.Lights.Lights) {
			k := float32(0.4 + 0.6*view.Lights.Lights[tp.Light].Intensity)
			r, g, b = r*k, g*k, b*k
		}
		s.appendPoint(proj, RotateY(tp.Pos, view.Model.RotationY), float64(tp.Size), r, g, b, 1)
	}
}

func (s *RenderSystem) appendSnow(proj Projector, snow *SnowfallSystem) {
	if snow == nil {
		return
	}
	buf := snow.Buffer
	for i := 0; i < buf.Count; i++ {
		s.appendPoint(proj, buf.Point(i), float64(buf.Sizes[i]), 1, 1, 1, snow.Opacity)
	}
	buf.ClearDirty()
}

func (s *RenderSystem) appendBurst(screen *ebiten.Image, proj Projector, b *FireworkBurst) {
	buf := b.Buffer
	alpha := float32(b.Opacity)
	for i := 0; i < buf.Count; i++ {
		if len(s.vertices)+4 > maxBatchVertices {
			s.flush(screen, true)
			s.begin()
		}
		r, g, bl := buf.Color(i)
		s.appendPoint(proj, buf.Point(i), float64(buf.Sizes[i]), r, g, bl, alpha)
	}
	buf.ClearDirty()
}

func (s *RenderSystem) flush(screen *ebiten.Image, additive bool) {
	if len(s.vertices) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesOptions{}
	op.AntiAlias = true
	if additive {
		op.Blend = ebiten.BlendLighter
	}
	screen.DrawTriangles(s.vertices, s.indices, s.dot, op)
}

// handBones MediaPipe 手部骨架连线
var handBones = [][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 4},
	{0, 5}, {5, 6}, {6, 7}, {7, 8},
	{5, 9}, {9, 10}, {10, 11}, {11, 12},
	{9, 13}, {13, 14}, {14, 15}, {15, 16},
	{13, 17}, {0, 17}, {17, 18}, {18, 19}, {19, 20},
}

// drawHand 在右下角的小窗口里绘制镜像后的手部骨架
func drawHand(screen *ebiten.Image, hand *components.HandFrame) {
	const boxW, boxH, margin = 200, 150, 16
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	ox := float32(w - boxW - margin)
	oy := float32(h - boxH - margin)

	vector.DrawFilledRect(screen, ox, oy, boxW, boxH, color.RGBA{0, 0, 0, 96}, false)
	pt := func(i int) (float32, float32) {
		lm := hand.Landmarks[i]
		return ox + float32(1-lm.X)*boxW, oy + float32(lm.Y)*boxH
	}
	lineColor := color.RGBA{0, 255, 0, 255}
	for _, bone := range handBones {
		x0, y0 := pt(bone[0])
		x1, y1 := pt(bone[1])
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, lineColor, true)
	}
	dotColor := color.RGBA{255, 0, 0, 255}
	for i := range hand.Landmarks[:components.LandmarkCount] {
		x, y := pt(i)
		vector.DrawFilledCircle(screen, x, y, 3, dotColor, true)
	}
}

func (s *RenderSystem) drawStatus(screen *ebiten.Image, status string) {
	if status == "" || s.statusFnt == nil {
		return
	}
	maxWidth := float64(screen.Bounds().Dx()) - 32
	lineHeight := s.statusFnt.Size * 1.3
	for i, line := range utils.WrapText(status, s.statusFnt, maxWidth) {
		op := &text.DrawOptions{}
		op.GeoM.Translate(16, 16+float64(i)*lineHeight)
		op.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, line, s.statusFnt, op)
	}
}

// drawBanner 绘制 "Merry Christmas!" 横幅（带描边、回弹缩放、淡出）
func (s *RenderSystem) drawBanner(screen *ebiten.Image, progress float64) {
	if s.bannerFnt == nil {
		return
	}
	const msg = "Merry Christmas!"
	scale, alpha := utils.BannerCurve(progress)
	if scale <= 0 || alpha <= 0 {
		return
	}

	tw, th := text.Measure(msg, s.bannerFnt, 0)
	cx := float64(screen.Bounds().Dx()) / 2
	cy := float64(screen.Bounds().Dy()) / 3

	draw := func(dx, dy float64, c color.Color) {
		op := &text.DrawOptions{}
		op.GeoM.Translate(-tw/2+dx, -th/2+dy)
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(cx, cy)
		op.ColorScale.ScaleWithColor(c)
		op.ColorScale.ScaleAlpha(float32(alpha))
		text.Draw(screen, msg, s.bannerFnt, op)
	}

	stroke := color.RGBA{0, 0, 0, 255}
	for _, o := range [][2]float64{{-2, -2}, {2, -2}, {-2, 2}, {2, 2}} {
		draw(o[0], o[1], stroke)
	}
	draw(0, 0, color.RGBA{255, 215, 0, 255})
}
