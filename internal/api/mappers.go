package api

import "github.com/studiocast/relay/internal/domain"

func ToUserInfo(m domain.Member) UserInfo {
	return UserInfo{
		UserID:   m.UserID,
		UserName: m.DisplayName,
	}
}

func ToUserInfos(members []domain.Member) []UserInfo {
	infos := make([]UserInfo, len(members))
	for i, m := range members {
		infos[i] = ToUserInfo(m)
	}
	return infos
}

func UserIDs(members []domain.Member) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	return ids
}

func ToRoomStatus(r domain.RoomInfo) RoomStatus {
	return RoomStatus{
		RoomID:      r.ID,
		MemberCount: len(r.Members),
		Members:     ToUserInfos(r.Members),
	}
}

func ToRoomStatuses(rooms []domain.RoomInfo) []RoomStatus {
	statuses := make([]RoomStatus, len(rooms))
	for i, r := range rooms {
		statuses[i] = ToRoomStatus(r)
	}
	return statuses
}
