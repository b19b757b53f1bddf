package service

import (
	"context"
	"errors"
	"strings"

	"StoreText/internal/cli/crypto"
	"StoreText/internal/cli/model"
	"StoreText/internal/cli/share"
)

// SharedNoteTitle - заголовок заметки, полученной по ссылке.
const SharedNoteTitle = "Shared note"

// ShareLink строит ссылку с зашифрованным содержимым. Открытый текст
// шифруется паролем; уже зашифрованный конверт передаётся как есть.
func (s *NoteService) ShareLink(content, password, site string) (string, error) {
	env := content
	if !crypto.IsEnvelope(content) {
		var err error
		env, err = s.EncryptContent(content, password)
		if err != nil {
			return "", err
		}
	}
	return share.BuildLink(s.shareBase, site, env), nil
}

// ReceiveShared разбирает ссылку, расшифровывает конверт и создаёт заметку.
// При любой ошибке хранилище не меняется.
func (s *NoteService) ReceiveShared(ctx context.Context, link, password string) (model.Note, error) {
	l, err := share.ParseLink(link)
	if err != nil {
		return model.Note{}, err
	}
	if password == "" {
		return model.Note{}, ErrPasswordRequired
	}
	plain, err := decryptLinked(l, password)
	if err != nil {
		return model.Note{}, err
	}
	title := SharedNoteTitle
	if l.Site != "" {
		title = l.Site
	}
	return s.Create(ctx, title, plain)
}

// decryptLinked пробует пароль как есть, а для ссылок на сайт без маркера
// ещё и ключ облачного варианта "<site>::<password>".
func decryptLinked(l share.Link, password string) (string, error) {
	plain, err := crypto.Decrypt(l.Envelope, password)
	if err == nil || l.Site == "" || crypto.IsEnvelope(strings.TrimSpace(l.Envelope)) {
		return plain, err
	}
	plain, cloudErr := crypto.Decrypt(l.Envelope, crypto.CloudPassword(l.Site, password))
	if cloudErr != nil {
		return "", errors.Join(err, cloudErr)
	}
	return plain, nil
}
