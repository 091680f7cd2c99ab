package java

type OriginKind int

const (
	OriginSource OriginKind = iota
	OriginBinary
	OriginArchive
)

func (k OriginKind) String() string {
	switch k {
	case OriginSource:
		return "source"
	case OriginBinary:
		return "binary"
	case OriginArchive:
		return "archive"
	}
	return "unknown"
}

// Origin records where a declaration was read from. Entry is only set for
// archives and names the member inside the archive.
type Origin struct {
	Kind  OriginKind
	Path  string
	Entry string
}

func SourceOrigin(path string) Origin {
	return Origin{Kind: OriginSource, Path: path}
}

func BinaryOrigin(path string) Origin {
	return Origin{Kind: OriginBinary, Path: path}
}

func ArchiveOrigin(path, entry string) Origin {
	return Origin{Kind: OriginArchive, Path: path, Entry: entry}
}

func (o Origin) String() string {
	if o.Kind == OriginArchive {
		return o.Path + "!/" + o.Entry
	}
	return o.Path
}
