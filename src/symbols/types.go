package symbols

// CacheType identifies one category of cached identifiers. The set is
// closed: every type is either a file type (backed by a data pack
// resource file) or a miscellaneous type (non-file symbols such as
// scoreboard objectives or teams).
type CacheType string

// File types. Each corresponds to one resource kind under a namespace.
const (
	TypeAdvancement   CacheType = "advancement"
	TypeDimension     CacheType = "dimension"
	TypeDimensionType CacheType = "dimension_type"
	TypeFunction      CacheType = "function"
	TypeLootTable     CacheType = "loot_table"
	TypePredicate     CacheType = "predicate"
	TypeRecipe        CacheType = "recipe"
	TypeItemModifier  CacheType = "item_modifier"
)

// Tag file types.
const (
	TypeTagBlock      CacheType = "tag/block"
	TypeTagEntityType CacheType = "tag/entity_type"
	TypeTagFluid      CacheType = "tag/fluid"
	TypeTagFunction   CacheType = "tag/function"
	TypeTagItem       CacheType = "tag/item"
)

// Worldgen registry file types.
const (
	TypeWorldgenBiome                      CacheType = "worldgen/biome"
	TypeWorldgenConfiguredCarver           CacheType = "worldgen/configured_carver"
	TypeWorldgenConfiguredDecorator        CacheType = "worldgen/configured_decorator"
	TypeWorldgenConfiguredFeature          CacheType = "worldgen/configured_feature"
	TypeWorldgenConfiguredStructureFeature CacheType = "worldgen/configured_structure_feature"
	TypeWorldgenConfiguredSurfaceBuilder   CacheType = "worldgen/configured_surface_builder"
	TypeWorldgenNoiseSettings              CacheType = "worldgen/noise_settings"
	TypeWorldgenProcessorList              CacheType = "worldgen/processor_list"
	TypeWorldgenTemplatePool               CacheType = "worldgen/template_pool"
)

// Miscellaneous types.
const (
	TypeBossbar     CacheType = "bossbar"
	TypeEntity      CacheType = "entity"
	TypeObjective   CacheType = "objective"
	TypeScoreHolder CacheType = "score_holder"
	TypeStorage     CacheType = "storage"
	TypeTag         CacheType = "tag"
	TypeTeam        CacheType = "team"
	TypeColor       CacheType = "color"
	TypeAliasEntity CacheType = "alias/entity"
	TypeAliasUUID   CacheType = "alias/uuid"
	TypeAliasVector CacheType = "alias/vector"
)

// CacheVersion gates compatibility of persisted cache files. A loaded
// file whose version differs must be discarded wholesale; there is no
// migration path.
const CacheVersion = 10

var fileTypes = []CacheType{
	TypeAdvancement, TypeDimension, TypeDimensionType, TypeFunction,
	TypeLootTable, TypePredicate, TypeRecipe, TypeItemModifier,
	TypeTagBlock, TypeTagEntityType, TypeTagFluid, TypeTagFunction, TypeTagItem,
	TypeWorldgenBiome, TypeWorldgenConfiguredCarver, TypeWorldgenConfiguredDecorator,
	TypeWorldgenConfiguredFeature, TypeWorldgenConfiguredStructureFeature,
	TypeWorldgenConfiguredSurfaceBuilder, TypeWorldgenNoiseSettings,
	TypeWorldgenProcessorList, TypeWorldgenTemplatePool,
}

var miscTypes = []CacheType{
	TypeBossbar, TypeEntity, TypeObjective, TypeScoreHolder, TypeStorage,
	TypeTag, TypeTeam, TypeColor, TypeAliasEntity, TypeAliasUUID, TypeAliasVector,
}

// CacheTypes returns every member of the closed type set, file types
// first. The returned slice is shared; callers must not modify it.
func CacheTypes() []CacheType {
	return allTypes
}

var allTypes = append(append([]CacheType{}, fileTypes...), miscTypes...)

var fileTypeSet = toSet(fileTypes)
var miscTypeSet = toSet(miscTypes)

func toSet(types []CacheType) map[CacheType]struct{} {
	set := make(map[CacheType]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

// IsFileType reports whether t is backed by resource files.
func IsFileType(t CacheType) bool {
	_, ok := fileTypeSet[t]
	return ok
}

// IsTagFileType reports whether t is one of the tag subtypes.
func IsTagFileType(t CacheType) bool {
	switch t {
	case TypeTagBlock, TypeTagEntityType, TypeTagFluid, TypeTagFunction, TypeTagItem:
		return true
	}
	return false
}

// IsWorldgenRegistryFileType reports whether t is a worldgen registry subtype.
func IsWorldgenRegistryFileType(t CacheType) bool {
	switch t {
	case TypeWorldgenBiome, TypeWorldgenConfiguredCarver, TypeWorldgenConfiguredDecorator,
		TypeWorldgenConfiguredFeature, TypeWorldgenConfiguredStructureFeature,
		TypeWorldgenConfiguredSurfaceBuilder, TypeWorldgenNoiseSettings,
		TypeWorldgenProcessorList, TypeWorldgenTemplatePool:
		return true
	}
	return false
}

// IsMiscType reports whether t is a non-file symbol kind.
func IsMiscType(t CacheType) bool {
	_, ok := miscTypeSet[t]
	return ok
}

// IsAliasType reports whether t is one of the alias kinds.
func IsAliasType(t CacheType) bool {
	switch t {
	case TypeAliasEntity, TypeAliasUUID, TypeAliasVector:
		return true
	}
	return false
}

// IsInternalType reports whether symbols of t are implementation
// details that must never surface in user-facing completion lists.
func IsInternalType(t CacheType) bool {
	return t == TypeColor || IsAliasType(t)
}

// IsNamespacedType reports whether identities of t carry a namespace.
// Every file type does; of the misc types only bossbars and storages do
// (scoreboard tags, teams and objectives are plain strings).
func IsNamespacedType(t CacheType) bool {
	if IsFileType(t) {
		return true
	}
	return t == TypeBossbar || t == TypeStorage
}

// IsValidType reports whether t belongs to the closed type set.
func IsValidType(t CacheType) bool {
	return IsFileType(t) || IsMiscType(t)
}

// FileTypeFromCategoryName derives a file type from a pluralized
// category directory name ("functions" -> "function"). The dimension
// categories are already singular-looking and pass through unchanged.
func FileTypeFromCategoryName(category string) CacheType {
	if category == "dimension" || category == "dimension_type" {
		return CacheType(category)
	}
	if n := len(category); n > 0 && category[n-1] == 's' {
		return CacheType(category[:n-1])
	}
	return CacheType(category)
}

// CategoryNameFromFileType is the inverse of FileTypeFromCategoryName.
func CategoryNameFromFileType(t CacheType) string {
	if t == TypeDimension || t == TypeDimensionType {
		return string(t)
	}
	return string(t) + "s"
}
