package matchv1

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of match/v1/match.proto.
const (
	matchRequestMatchID protowire.Number = 1

	matchResponseMatchID    protowire.Number = 1
	matchResponseHomeTeam   protowire.Number = 2
	matchResponseAwayTeam   protowire.Number = 3
	matchResponseStatus     protowire.Number = 4
	matchResponseHomeScore  protowire.Number = 5
	matchResponseAwayScore  protowire.Number = 6
	matchResponseLastEvent  protowire.Number = 7
	matchResponsePossession protowire.Number = 8
	matchResponseShots      protowire.Number = 9
	matchResponseFouls      protowire.Number = 10
	matchResponseCards      protowire.Number = 11

	eventMatchID         protowire.Number = 1
	eventType            protowire.Number = 2
	eventDescription     protowire.Number = 3
	eventHomeScoreChange protowire.Number = 4
	eventAwayScoreChange protowire.Number = 5
	eventCardColor       protowire.Number = 6
)

func (x *MatchRequest) marshalWire() []byte {
	var b []byte
	b = appendString(b, matchRequestMatchID, x.GetMatchId())
	return b
}

func (x *MatchRequest) unmarshalWire(b []byte) error {
	*x = MatchRequest{}
	return walkFields(b, func(f field) {
		if f.num == matchRequestMatchID {
			x.MatchId = f.string()
		}
	})
}

func (x *MatchResponse) marshalWire() []byte {
	var b []byte
	b = appendString(b, matchResponseMatchID, x.GetMatchId())
	b = appendString(b, matchResponseHomeTeam, x.GetHomeTeam())
	b = appendString(b, matchResponseAwayTeam, x.GetAwayTeam())
	b = appendString(b, matchResponseStatus, x.GetStatus())
	b = appendInt32(b, matchResponseHomeScore, x.GetHomeScore())
	b = appendInt32(b, matchResponseAwayScore, x.GetAwayScore())
	b = appendString(b, matchResponseLastEvent, x.GetLastEvent())
	b = appendInt32(b, matchResponsePossession, x.GetPossession())
	b = appendInt32(b, matchResponseShots, x.GetShots())
	b = appendInt32(b, matchResponseFouls, x.GetFouls())
	for _, card := range x.GetCards() {
		b = protowire.AppendTag(b, matchResponseCards, protowire.BytesType)
		b = protowire.AppendString(b, card)
	}
	return b
}

func (x *MatchResponse) unmarshalWire(b []byte) error {
	*x = MatchResponse{}
	return walkFields(b, func(f field) {
		switch f.num {
		case matchResponseMatchID:
			x.MatchId = f.string()
		case matchResponseHomeTeam:
			x.HomeTeam = f.string()
		case matchResponseAwayTeam:
			x.AwayTeam = f.string()
		case matchResponseStatus:
			x.Status = f.string()
		case matchResponseHomeScore:
			x.HomeScore = f.int32()
		case matchResponseAwayScore:
			x.AwayScore = f.int32()
		case matchResponseLastEvent:
			x.LastEvent = f.string()
		case matchResponsePossession:
			x.Possession = f.int32()
		case matchResponseShots:
			x.Shots = f.int32()
		case matchResponseFouls:
			x.Fouls = f.int32()
		case matchResponseCards:
			if f.typ == protowire.BytesType {
				x.Cards = append(x.Cards, f.string())
			}
		}
	})
}

func (x *UpdateMatchEventRequest) marshalWire() []byte {
	var b []byte
	b = appendString(b, eventMatchID, x.GetMatchId())
	b = appendString(b, eventType, x.GetEventType())
	b = appendString(b, eventDescription, x.GetDescription())
	b = appendInt32(b, eventHomeScoreChange, x.GetHomeScoreChange())
	b = appendInt32(b, eventAwayScoreChange, x.GetAwayScoreChange())
	b = appendString(b, eventCardColor, x.GetCardColor())
	return b
}

func (x *UpdateMatchEventRequest) unmarshalWire(b []byte) error {
	*x = UpdateMatchEventRequest{}
	return walkFields(b, func(f field) {
		switch f.num {
		case eventMatchID:
			x.MatchId = f.string()
		case eventType:
			x.EventType = f.string()
		case eventDescription:
			x.Description = f.string()
		case eventHomeScoreChange:
			x.HomeScoreChange = f.int32()
		case eventAwayScoreChange:
			x.AwayScoreChange = f.int32()
		case eventCardColor:
			x.CardColor = f.string()
		}
	})
}

// Zero values are not written (proto3 implicit presence).
func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(v)))
}

type field struct {
	num    protowire.Number
	typ    protowire.Type
	varint uint64
	bytes  []byte
}

func (f field) string() string {
	if f.typ != protowire.BytesType {
		return ""
	}
	return string(f.bytes)
}

func (f field) int32() int32 {
	if f.typ != protowire.VarintType {
		return 0
	}
	return int32(f.varint)
}

// walkFields decodes every field of b and hands varint and length-delimited
// values to fn. Other wire types are skipped like unknown fields.
func walkFields(b []byte, fn func(field)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if typ == protowire.VarintType || typ == protowire.BytesType {
			fn(f)
		}
	}
	return nil
}
