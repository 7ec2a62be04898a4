package models

// Erişim kontrolü predicate'leri.
//
// Bu fonksiyonlar iki yerde kullanılır:
//   - services: kuralı zorlar (ihlalde ErrForbidden)
//   - web: butonları/formları koşullu gösterir
//
// İki katman aynı fonksiyonu çağırdığı için arayüzde görünen ile API'nin
// kabul ettiği hiçbir zaman ayrışmaz. Hepsi nil-safe'tir: anonim ziyaretçi nil User'dır.

// IsRoleHigherThan, a rolü b'den kesinlikle daha yetkili mi?
func IsRoleHigherThan(a, b Role) bool {
	return a.Rank() > b.Rank()
}

// HasRoleAtLeast, r rolü min rolüne eşit veya daha yetkili mi?
// Bilinmeyen rol hiçbir eşiği geçemez.
func HasRoleAtLeast(r, min Role) bool {
	return r.Rank() > 0 && r.Rank() >= min.Rank()
}

// IsAdmin, kullanıcı ADMIN mi?
func IsAdmin(u *User) bool {
	return u != nil && u.Role == RoleAdmin
}

// CanCreatePost, viewer bu panoya yazı açabilir mi?
// Panonun write_role'ü boşsa USER kabul edilir.
func CanCreatePost(viewer *User, board *Board) bool {
	if viewer == nil || board == nil {
		return false
	}
	return HasRoleAtLeast(viewer.Role, board.EffectiveWriteRole())
}

// CanModifyPost, viewer bu yazıyı düzenleyip silebilir mi?
// Yazar kendisi veya ADMIN.
func CanModifyPost(viewer *User, post *Post) bool {
	if viewer == nil || post == nil {
		return false
	}
	if viewer.ID != "" && viewer.ID == post.AuthorID {
		return true
	}
	return IsAdmin(viewer)
}

// CanManageUser, actor hedef kullanıcının rolünü değiştirip onu silebilir mi?
// Kural: actor ADMIN olmalı, kendisi olmamalı ve hedeften kesinlikle üstün olmalı.
// Bu yüzden bir admin başka bir admin'i düşüremez veya silemez.
func CanManageUser(actor, target *User) bool {
	if actor == nil || target == nil || !IsAdmin(actor) {
		return false
	}
	if actor.ID == target.ID {
		return false
	}
	return IsRoleHigherThan(actor.Role, target.Role)
}

// CanAssignRole, actor hedefe bu rolü verebilir mi?
// Kimse kendi rolünden yüksek bir rol dağıtamaz.
func CanAssignRole(actor, target *User, role Role) bool {
	if !CanManageUser(actor, target) || !role.Valid() {
		return false
	}
	return !IsRoleHigherThan(role, actor.Role)
}
