package engine

// Exports an engine module provides. Strings cross the boundary as a packed
// i64 holding ptr<<32 | len into the module's linear memory.
const (
	ExportMemory          = "memory"
	ExportAlloc           = "alloc"
	ExportDealloc         = "dealloc"
	ExportDefaultSettings = "default_settings"
	ExportParseSettings   = "parse_settings"
	ExportMaxLineLen      = "max_line_len"
	ExportFormat          = "format"
	ExportLastError       = "last_error"
	ExportDropSettings    = "drop_settings"

	// Fallback allocator names used by older toolchains
	cabiRealloc = "cabi_realloc"
	legacyAlloc = "allocate"
	legacyFree  = "deallocate"
)

// requiredExports must be present for a module to load.
var requiredExports = []string{
	ExportDefaultSettings,
	ExportParseSettings,
	ExportMaxLineLen,
	ExportFormat,
	ExportLastError,
}

func packPtrLen(ptr, length uint32) uint64 {
	return uint64(ptr)<<32 | uint64(length)
}

func unpackPtrLen(v uint64) (ptr, length uint32) {
	return uint32(v >> 32), uint32(v)
}
