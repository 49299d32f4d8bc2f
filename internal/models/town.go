package models

import (
	"time"
)

type Town struct {
	ID                uint   `gorm:"primaryKey"`
	Name              string `gorm:"type:varchar(32);uniqueIndex;not null"`
	Description       string `gorm:"type:text"`
	Motto             string `gorm:"type:varchar(100)"`
	Banner            string `gorm:"type:varchar(500)"`
	Coordinates       string `gorm:"type:varchar(100);not null"`
	Status            string `gorm:"type:varchar(20);default:'pending_approval';not null"`
	OwnerID           uint   `gorm:"not null;index"`
	Owner             Player `gorm:"foreignKey:OwnerID"`
	HasWall           bool   `gorm:"default:false;not null"`
	HasPathConnection bool   `gorm:"default:false;not null"`
	HasConstitution   bool   `gorm:"default:false;not null"`
	ProtectionStatus  bool   `gorm:"default:false;not null"`
	Territory         int    `gorm:"default:0;not null"` // derived, in chunks
	Population        int    `gorm:"default:0;not null"`
	PendingMemberIDs  string `gorm:"type:text"` // JSON array of player IDs, cleared on approval/rejection
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PlayerID carries a unique index: a player holds at most one membership
// record for the lifetime of the system. Rows are never deleted.
type TownMember struct {
	ID       uint      `gorm:"primaryKey"`
	PlayerID uint      `gorm:"uniqueIndex;not null"`
	TownID   uint      `gorm:"not null;index"`
	Role     string    `gorm:"type:varchar(20);default:'citizen';not null"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
	Player   Player    `gorm:"foreignKey:PlayerID"`
	Town     Town      `gorm:"foreignKey:TownID"`
}

// Town lifecycle statuses
const (
	TownStatusPending  = "pending_approval"
	TownStatusApproved = "approved"
	TownStatusRejected = "rejected"
)

// Town member roles
const (
	TownRoleLeader   = "leader"
	TownRoleGeneral  = "general"
	TownRoleMinister = "minister"
	TownRoleOfficer  = "officer"
	TownRoleCitizen  = "citizen"
)

// Settlement policy constants (server rules)
const (
	MinFoundingMembers    = 5
	TownBaseSideBlocks    = 150
	MemberBonusSideBlocks = 50
	BlocksPerChunk        = 256
)

// ComputeProtectionStatus reports whether a town meets every protection
// requirement. Pending and rejected towns are never protected.
func ComputeProtectionStatus(t *Town) bool {
	return t.HasWall && t.HasPathConnection && t.HasConstitution && t.Status == TownStatusApproved
}

// ComputeTerritory returns the town's land claim in chunks: a 150x150 base
// plus a 50x50 bonus for every registered member beyond the founding five.
func ComputeTerritory(memberCount int) int {
	extra := memberCount - MinFoundingMembers
	if extra < 0 {
		extra = 0
	}
	area := TownBaseSideBlocks*TownBaseSideBlocks + extra*MemberBonusSideBlocks*MemberBonusSideBlocks
	return area / BlocksPerChunk
}

func (Town) TableName() string {
	return "towns"
}

func (TownMember) TableName() string {
	return "town_members"
}
