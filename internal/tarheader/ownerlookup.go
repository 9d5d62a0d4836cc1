package tarheader

// NameService is the injected capability for resolving between Unix
// numeric ids and names. This package never talks to the operating
// system directly; a caller that wants owner reconciliation supplies an
// implementation, typically backed by os/user or nss.
type NameService interface {
	LookupUserByName(name string) (uid int, ok bool)
	LookupGroupByName(name string) (gid int, ok bool)
	LookupUserByID(uid int) (name string, ok bool)
	LookupGroupByID(gid int) (name string, ok bool)
}

const (
	fallbackUserName  = "nobody"
	fallbackGroupName = "nogroup"
)
