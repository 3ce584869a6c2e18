package auth

// Role は user_roles テーブルの RoleID と対応する。
// 既存データ互換のため数値は変更しないこと。
type Role int

const (
	RoleAdmin     Role = 1
	RoleLibrarian Role = 2
	RolePatron    Role = 3
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleLibrarian:
		return "Librarian"
	case RolePatron:
		return "Patron"
	default:
		return "Unknown"
	}
}

// IsStaff: 運営向け通知・承認操作の対象ロールかどうか。
// 旧実装では RoleID IN (1,2) がクエリに直書きされていた。判定はここに集約する。
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleLibrarian
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleLibrarian || r == RolePatron
}

// StaffRoleIDs returns the persisted role codes covered by IsStaff,
// for use as query parameters.
func StaffRoleIDs() []int {
	return []int{int(RoleAdmin), int(RoleLibrarian)}
}
