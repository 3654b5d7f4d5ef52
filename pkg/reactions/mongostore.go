package reactions

import (
	"context"

	"github.com/meower-media/reactions/pkg/emojis"
	"github.com/meower-media/reactions/pkg/meowid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ Store = (*MongoStore)(nil)

type reactionDoc struct {
	Id       reactionIdCompound `bson:"_id"`
	UserName string             `bson:"user_name"`
	Emoji    string             `bson:"emoji"`
	Created  meowid.MeowID      `bson:"created"`
}

// Field order matters: Mongo compares embedded documents field by field.
type reactionIdCompound struct {
	ChatId    int64 `bson:"chat"`
	MessageId int64 `bson:"message"`
	UserId    int64 `bson:"user"`
}

func idOf(key Key) reactionIdCompound {
	return reactionIdCompound{ChatId: key.ChatId, MessageId: key.MessageId, UserId: key.UserId}
}

// MongoStore keeps reactions in a MongoDB collection keyed by a compound _id.
// Writes are conditional on the emoji read, so a concurrent change surfaces
// as ErrConflict instead of a lost update.
type MongoStore struct {
	coll *mongo.Collection
	ids  *meowid.Generator
}

func NewMongoStore(coll *mongo.Collection, ids *meowid.Generator) *MongoStore {
	return &MongoStore{coll: coll, ids: ids}
}

func (s *MongoStore) Init(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "_id.message", Value: 1}, {Key: "created", Value: 1}}},
		{Keys: bson.D{{Key: "_id.chat", Value: 1}, {Key: "_id.message", Value: 1}, {Key: "emoji", Value: 1}}},
	})
	return fault(err)
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return fault(s.coll.Database().Client().Ping(ctx, nil))
}

func (s *MongoStore) Close() error {
	return s.coll.Database().Client().Disconnect(context.Background())
}

func (s *MongoStore) find(ctx context.Context, key Key) (reactionDoc, bool, error) {
	var doc reactionDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": idOf(key)}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return doc, false, nil
	}
	return doc, err == nil, err
}

func (s *MongoStore) GetReaction(ctx context.Context, key Key) (emojis.Emoji, bool, error) {
	doc, found, err := s.find(ctx, key)
	if err != nil || !found {
		return emojis.Emoji{}, false, fault(err)
	}
	return emojis.Decode(doc.Emoji), true, nil
}

func (s *MongoStore) UpsertReaction(ctx context.Context, key Key, userName string, emoji emojis.Emoji) error {
	if emoji.IsZero() {
		return ErrNoEmoji
	}
	_, err := s.coll.UpdateOne(
		ctx,
		bson.M{"_id": idOf(key)},
		bson.M{
			"$set": bson.M{"emoji": emoji.String()},
			"$setOnInsert": bson.M{
				"user_name": userName,
				"created":   s.ids.GenId(),
			},
		},
		options.Update().SetUpsert(true),
	)
	return fault(err)
}

func (s *MongoStore) DeleteReaction(ctx context.Context, key Key) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": idOf(key)})
	return fault(err)
}

func (s *MongoStore) CountsByEmoji(ctx context.Context, post PostKey) (Counts, error) {
	cur, err := s.coll.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"_id.chat": post.ChatId, "_id.message": post.MessageId}},
		{"$group": bson.M{"_id": "$emoji", "count": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return nil, fault(err)
	}

	var groups []struct {
		Emoji string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, fault(err)
	}

	counts := make(Counts, len(groups))
	for _, g := range groups {
		counts[emojis.Decode(g.Emoji)] = g.Count
	}
	return counts, nil
}

func (s *MongoStore) ListReactions(ctx context.Context, messageId int64) ([]Entry, error) {
	opts := options.Find()
	opts.SetSort(bson.D{{Key: "created", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{"_id.message": messageId}, opts)
	if err != nil {
		return nil, fault(err)
	}

	var docs []reactionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fault(err)
	}

	entries := make([]Entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, Entry{UserName: d.UserName, Emoji: emojis.Decode(d.Emoji)})
	}
	return entries, nil
}

func (s *MongoStore) Mutate(ctx context.Context, key Key, userName string, fn MutateFunc) (Change, error) {
	doc, found, err := s.find(ctx, key)
	if err != nil {
		return Change{}, fault(err)
	}

	var current emojis.Emoji
	if found {
		current = emojis.Decode(doc.Emoji)
	}
	change := fn(current, found)

	// Every write is conditional on the state read above
	id := idOf(key)
	switch change.Kind {
	case ChangeInsert:
		_, err = s.coll.InsertOne(ctx, reactionDoc{
			Id:       id,
			UserName: userName,
			Emoji:    change.Emoji.String(),
			Created:  s.ids.GenId(),
		})
		if mongo.IsDuplicateKeyError(err) {
			return Change{}, ErrConflict
		}
	case ChangeUpdate:
		var res *mongo.UpdateResult
		res, err = s.coll.UpdateOne(
			ctx,
			bson.M{"_id": id, "emoji": doc.Emoji},
			bson.M{"$set": bson.M{"emoji": change.Emoji.String()}},
		)
		if err == nil && res.MatchedCount == 0 {
			return Change{}, ErrConflict
		}
	case ChangeDelete:
		var res *mongo.DeleteResult
		res, err = s.coll.DeleteOne(ctx, bson.M{"_id": id, "emoji": doc.Emoji})
		if err == nil && res.DeletedCount == 0 {
			return Change{}, ErrConflict
		}
	}
	if err != nil {
		return Change{}, fault(err)
	}
	return change, nil
}
