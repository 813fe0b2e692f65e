package site

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stage names.
const (
	StageParsePosts    StageName = "parse_posts"
	StageRenderIndex   StageName = "render_index"
	StageCopyAssets    StageName = "copy_assets"
	StageWriteManifest StageName = "write_manifest"
	StagePromote       StageName = "promote"
)
